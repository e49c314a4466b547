package state

import "github.com/atomicstack/tmux-popup-links/internal/links"

// CatalogStore holds the most recently loaded links catalog.
type CatalogStore interface {
	Menus() []links.MenuSpec
	SetCatalog(links.Catalog)
	Version() int
}

type catalogStore struct {
	menus   []links.MenuSpec
	version int
}

func NewCatalogStore(initial links.Catalog) CatalogStore {
	s := &catalogStore{}
	s.SetCatalog(initial)
	s.version = 0
	return s
}

func (s *catalogStore) Menus() []links.MenuSpec {
	return cloneMenus(s.menus)
}

func (s *catalogStore) SetCatalog(cat links.Catalog) {
	s.menus = cloneMenus(cat.Menus)
	s.version++
}

func (s *catalogStore) Version() int {
	return s.version
}

func cloneMenus(menus []links.MenuSpec) []links.MenuSpec {
	if len(menus) == 0 {
		return nil
	}
	dup := make([]links.MenuSpec, len(menus))
	for i, spec := range menus {
		dup[i] = spec
		dup[i].Links = links.CloneOptions(spec.Links)
	}
	return dup
}
