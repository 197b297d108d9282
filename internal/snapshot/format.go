// SPDX-License-Identifier: MPL-2.0

package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatJSON is the default document format.
	FormatJSON Format = "json"
	// FormatYAML writes YAML 1.2.
	FormatYAML Format = "yaml"
	// FormatTOML writes TOML 1.0.
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for unrecognized format names or extensions.
var ErrUnknownFormat = errors.New("unknown snapshot format")

// Format selects the document encoding.
type Format string

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML}
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// ParseFormat accepts a format name, case-insensitively. "yml" is an alias.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Encode writes snap to w.
func Encode(w io.Writer, snap *Snapshot, format Format) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(snap); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(snap)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", format, err)
	}
	return nil
}

// Decode reads a snapshot from r.
func Decode(r io.Reader, format Format) (*Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&snap)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&snap)
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&snap)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s snapshot: %w", format, err)
	}
	return &snap, nil
}
