package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat converts a user-supplied format name. "yml" is accepted as
// an alias for YAML.
func ParseFormat(name string) (Format, error) {
	if err := y0errors.ValidateFormat(name); err != nil {
		return "", err
	}
	if name == "yml" {
		return FormatYAML, nil
	}
	return Format(name), nil
}

// FormatFromPath picks a format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

func decode(r io.Reader, f Format, v any) error {
	var err error
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(v)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(v)
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.NewDecoder(r).Decode(v)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = fmt.Errorf("unknown key %s", undecoded[0])
			}
		}
	default:
		return y0errors.New(y0errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
	if err != nil {
		return y0errors.Wrap(y0errors.ErrCodeInvalidFormat, err, "decode %s", f)
	}
	return nil
}

func encode(w io.Writer, f Format, v any) error {
	var err error
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(v); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(v)
	default:
		return y0errors.New(y0errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, y0errors.Wrap(y0errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func create(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
