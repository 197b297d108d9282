// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		base string
		want string
	}{
		{"root", "/", "/", "/"},
		{"empty is base", "", "/home", "/home"},
		{"dot is base", ".", "/home/user", "/home/user"},
		{"relative from root", "home", "/", "/home"},
		{"relative from dir", "docs/a.txt", "/home", "/home/docs/a.txt"},
		{"absolute ignores base", "/tmp", "/home", "/tmp"},
		{"trailing slash", "/home/", "/", "/home"},
		{"repeated slashes", "//home///user//", "/", "/home/user"},
		{"dot segments", "/./home/./user/.", "/", "/home/user"},
		{"parent", "..", "/home/user", "/home"},
		{"parent of root", "..", "/", "/"},
		{"parent past root", "../../../tmp", "/home", "/tmp"},
		{"parent inside", "/home/user/../other", "/", "/home/other"},
		{"base without leading slash treated as root", "x", "", "/x"},
		{"names with dots", "...", "/", "/..."},
		{"parent then sibling", "a/../b", "/x", "/x/b"},
		{"dot and trailing slash", "/a/./b/", "/", "/a/b"},
		{"parent of top-level dir", "..", "/home", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.raw, tt.base))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"", ".", "..", "a/b/../c", "/x//y/", "../../..", "/a/./b/./"}
	bases := []string{"/", "/home", "/home/user"}

	for _, base := range bases {
		for _, raw := range inputs {
			once := Normalize(raw, base)
			assert.Equal(t, once, Normalize(once, base), "raw=%q base=%q", raw, base)
			assert.Equal(t, once, Normalize(once, "/somewhere/else"), "absolute result must ignore base")
			assert.True(t, IsCanonical(once), "%q should be canonical", once)
		}
	}
}

func TestIsCanonical(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCanonical("/"))
	assert.True(t, IsCanonical("/home/user"))
	assert.False(t, IsCanonical(""))
	assert.False(t, IsCanonical("home"))
	assert.False(t, IsCanonical("/home/"))
	assert.False(t, IsCanonical("/home/../tmp"))
	assert.False(t, IsCanonical("/home//user"))
}

func TestParentAndBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		parent string
		base   string
	}{
		{"/", "/", "root"},
		{"/home", "/", "home"},
		{"/home/user", "/home", "user"},
		{"/a/b/c.txt", "/a/b", "c.txt"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.parent, Parent(tt.path), "Parent(%q)", tt.path)
		assert.Equal(t, tt.base, Base(tt.path), "Base(%q)", tt.path)
	}
}

func TestIsWithin(t *testing.T) {
	t.Parallel()

	assert.True(t, isWithin("/home", "/home"))
	assert.True(t, isWithin("/home/user", "/home"))
	assert.True(t, isWithin("/anything", "/"))
	assert.False(t, isWithin("/homework", "/home"))
	assert.False(t, isWithin("/", "/home"))
}

func TestAncestorsAndSelf(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ancestorsAndSelf("/"))
	assert.Equal(t, []string{"/a"}, ancestorsAndSelf("/a"))
	assert.Equal(t, []string{"/a", "/a/b", "/a/b/c"}, ancestorsAndSelf("/a/b/c"))
}
