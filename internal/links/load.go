package links

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/atomicstack/tmux-popup-links/internal/logging/events"
)

// Format identifies a catalog encoding.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonc":
		return FormatJSONC, nil
	default:
		return "", fmt.Errorf("unsupported links file extension %q", filepath.Ext(path))
	}
}

// Parse decodes a catalog in the given format.
func Parse(data []byte, format Format) (Catalog, error) {
	var cat Catalog
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &cat)
	case FormatTOML:
		err = toml.Unmarshal(data, &cat)
	case FormatJSON:
		err = json.Unmarshal(data, &cat)
	case FormatJSONC:
		err = json.Unmarshal(jsonc.ToJSON(data), &cat)
	default:
		return Catalog{}, fmt.Errorf("unsupported links format %q", format)
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("decode %s: %w", format, err)
	}
	return cat, nil
}

// LoadFile reads and decodes a single catalog file.
func LoadFile(path string) (Catalog, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Catalog{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read links file: %w", err)
	}
	cat, err := Parse(data, format)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Load reads every path concurrently and merges the results in argument
// order. The merged catalog must validate.
func Load(ctx context.Context, paths []string) (Catalog, error) {
	if len(paths) == 0 {
		return Catalog{}, ErrNoMenus
	}
	parsed := make([]Catalog, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cat, err := LoadFile(path)
			if err != nil {
				return err
			}
			parsed[i] = cat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	merged := Merge(parsed...)
	if err := merged.Validate(); err != nil {
		return Catalog{}, err
	}
	for _, dup := range merged.Duplicates() {
		events.Links.Duplicate(dup.Menu, dup.To)
	}
	events.Links.Loaded(paths, len(merged.Menus))
	return merged, nil
}
