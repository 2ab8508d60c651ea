// internal/engine/view.go
package engine

import (
	"github.com/tamzrod/tag-inventory/internal/render"
	"github.com/tamzrod/tag-inventory/internal/status"
)

func (e *Engine) view() render.View {
	v := render.View{
		Mode:  e.mode,
		Title: e.cfg.Title,
		Start: e.sel.Start,
		End:   e.sel.End,
		Total: len(e.items),
	}

	if e.sel.End > e.sel.Start {
		v.Items = make([]render.Item, 0, e.sel.End-e.sel.Start)
		for i := e.sel.Start; i < e.sel.End; i++ {
			v.Items = append(v.Items, render.Item{
				Name:     e.items[i],
				Selected: i == e.sel.Index,
			})
		}
	}

	if e.mode == render.ModeAlert && e.alert != nil {
		a := *e.alert
		v.Alert = &a
	}
	return v
}

func (e *Engine) snapshot() status.Snapshot {
	health := status.HealthOK
	switch {
	case e.storeFailed:
		health = status.HealthStoreError
	case e.readerFailed:
		health = status.HealthReaderError
	}

	return status.Snapshot{
		Health:         health,
		ItemCount:      status.Saturate(len(e.items)),
		LastEvent:      e.lastEvent,
		Selection:      status.Saturate(e.sel.Index),
		Toggles:        e.toggles,
		Suppressed:     status.Saturate(e.suppressed),
		DecodeFailures: status.Saturate(e.decodeFailures),
	}
}
