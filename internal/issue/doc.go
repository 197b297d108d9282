// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown guides
// shown to the user when an outer command of tos fails.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions. Issue renders a longer guide through glamour.
package issue
