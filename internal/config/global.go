// SPDX-License-Identifier: MPL-2.0

package config

// Test overrides for ConfigDir and DataDir. os.UserHomeDir does not honor
// HOME on every platform.
var (
	configDirOverride string
	dataDirOverride   string
)

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
	dataDirOverride = ""
}

// SetConfigDirOverride makes ConfigDir return dir.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetDataDirOverride makes DataDir return dir.
func SetDataDirOverride(dir string) {
	dataDirOverride = dir
}
