package live

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-ring/internal/humastar"
	"github.com/joeblew999/plat-ring/internal/service"
)

// EventHandler streams ring and sweep events to the Datastar UI via SSE.
// Segment events become feature-state signals the map viewer applies
// directly; CRUD events re-render the ring list and notify the map to
// reload geometry.
type EventHandler struct {
	humastar.Handler
	rings  *service.RingService
	sweeps *service.SweepService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(rings *service.RingService, sweeps *service.SweepService, renderer *humastar.Renderer) *EventHandler {
	return &EventHandler{
		Handler: humastar.Handler{Renderer: renderer},
		rings:   rings,
		sweeps:  sweeps,
	}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/live/events", h.Events,
		huma.OperationTags("live"),
	)
}

func (h *EventHandler) Events(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		ch := service.DefaultBus.Subscribe()
		defer service.DefaultBus.Unsubscribe(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-ch:
				switch ev.Action {
				case service.ActionSegment:
					sse.FeatureState(ev.Ring, ev.Segment, ev.Active)
					continue
				case service.ActionCreated, service.ActionUpdated, service.ActionDeleted:
					rh := &RingHandler{
						Handler: humastar.Handler{Renderer: h.Renderer},
						rings:   h.rings,
						sweeps:  h.sweeps,
					}
					sse.Patch(rh.renderRingList(h.rings.List()), "#ring-list")
				}
				sse.DispatchCustomEvent("ring-changed", map[string]any{
					"action": ev.Action,
					"id":     ev.Ring,
				})
			}
		}
	}), nil
}
