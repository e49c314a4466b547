package dispatcher

import (
	"github.com/atomicstack/tmux-popup-links/internal/backend"
	"github.com/atomicstack/tmux-popup-links/internal/links"
	"github.com/atomicstack/tmux-popup-links/internal/state"
)

type Result struct {
	LinksUpdated bool
	Err          error
}

type Dispatcher struct {
	catalog state.CatalogStore
}

func New(c state.CatalogStore) *Dispatcher {
	return &Dispatcher{catalog: c}
}

// Handle applies a backend event to the stores. A failed reload keeps the
// previous catalog.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		res.Err = evt.Err
		return res
	}
	switch evt.Kind {
	case backend.KindLinks:
		if cat, ok := evt.Data.(links.Catalog); ok {
			d.catalog.SetCatalog(cat)
			res.LinksUpdated = true
		}
	}
	return res
}
