// Package links describes the navigable targets shown by the popup and loads
// them from YAML, TOML, JSON or JSONC catalog files.
package links

import (
	"errors"
	"fmt"
	"strings"
)

// LinkOption is a navigable target with display text. To doubles as the
// option's identity within its menu.
type LinkOption struct {
	Label string `yaml:"label" json:"label" toml:"label"`
	To    string `yaml:"to" json:"to" toml:"to"`
}

// MenuSpec defines one trigger in the popup's row of menus.
type MenuSpec struct {
	Name   string       `yaml:"name" json:"name" toml:"name"`
	Active bool         `yaml:"active" json:"active" toml:"active"`
	Class  string       `yaml:"class" json:"class" toml:"class"`
	Links  []LinkOption `yaml:"links" json:"links" toml:"links"`
}

// Catalog is the parsed content of one or more links files.
type Catalog struct {
	Menus []MenuSpec `yaml:"menus" json:"menus" toml:"menus"`
}

// Duplicate names a To value that occurs more than once inside a menu.
type Duplicate struct {
	Menu string
	To   string
}

var ErrNoMenus = errors.New("links: no menus defined")

// Validate rejects menus without a name and options missing a label or target.
func (c Catalog) Validate() error {
	if len(c.Menus) == 0 {
		return ErrNoMenus
	}
	for i, menu := range c.Menus {
		if strings.TrimSpace(menu.Name) == "" {
			return fmt.Errorf("menu %d: name required", i)
		}
		for j, opt := range menu.Links {
			if strings.TrimSpace(opt.Label) == "" {
				return fmt.Errorf("menu %q link %d: label required", menu.Name, j)
			}
			if strings.TrimSpace(opt.To) == "" {
				return fmt.Errorf("menu %q link %q: target required", menu.Name, opt.Label)
			}
		}
	}
	return nil
}

// Duplicates lists repeated targets. They are reported, not rejected: rows
// sharing a target simply share an identity.
func (c Catalog) Duplicates() []Duplicate {
	var dups []Duplicate
	for _, menu := range c.Menus {
		seen := make(map[string]struct{}, len(menu.Links))
		for _, opt := range menu.Links {
			if _, ok := seen[opt.To]; ok {
				dups = append(dups, Duplicate{Menu: menu.Name, To: opt.To})
				continue
			}
			seen[opt.To] = struct{}{}
		}
	}
	return dups
}

// Find returns the menu with the given name.
func (c Catalog) Find(name string) (MenuSpec, bool) {
	for _, menu := range c.Menus {
		if strings.EqualFold(menu.Name, name) {
			return menu, true
		}
	}
	return MenuSpec{}, false
}

// Merge concatenates catalogs in order. Menus sharing a name are folded into
// the first occurrence, with later links appended and Active OR-ed.
func Merge(catalogs ...Catalog) Catalog {
	var out Catalog
	index := make(map[string]int)
	for _, cat := range catalogs {
		for _, menu := range cat.Menus {
			key := strings.ToLower(strings.TrimSpace(menu.Name))
			if i, ok := index[key]; ok {
				existing := &out.Menus[i]
				existing.Links = append(existing.Links, menu.Links...)
				existing.Active = existing.Active || menu.Active
				if existing.Class == "" {
					existing.Class = menu.Class
				}
				continue
			}
			index[key] = len(out.Menus)
			out.Menus = append(out.Menus, MenuSpec{
				Name:   menu.Name,
				Active: menu.Active,
				Class:  menu.Class,
				Links:  CloneOptions(menu.Links),
			})
		}
	}
	return out
}

// CloneOptions produces a shallow copy of the provided options.
func CloneOptions(opts []LinkOption) []LinkOption {
	if opts == nil {
		return nil
	}
	dup := make([]LinkOption, len(opts))
	copy(dup, opts)
	return dup
}
