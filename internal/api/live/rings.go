// Package live contains the Datastar SSE handlers for the ring viewer UI.
package live

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-ring/internal/humastar"
	"github.com/joeblew999/plat-ring/internal/service"
)

// RingHandler serves the ring card list and form actions as SSE patches.
type RingHandler struct {
	humastar.Handler
	rings  *service.RingService
	sweeps *service.SweepService
}

func NewRingHandler(rings *service.RingService, sweeps *service.SweepService, renderer *humastar.Renderer) *RingHandler {
	return &RingHandler{
		Handler: humastar.Handler{Renderer: renderer},
		rings:   rings,
		sweeps:  sweeps,
	}
}

func (h *RingHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/live/rings", h.ListRings, huma.OperationTags("live"))
	huma.Post(api, "/api/v1/live/rings", h.CreateRing, huma.OperationTags("live"))
	huma.Delete(api, "/api/v1/live/rings/{id}", h.DeleteRing, huma.OperationTags("live"))
	huma.Post(api, "/api/v1/live/rings/{id}/sweep", h.ToggleSweep, huma.OperationTags("live"))
}

func (h *RingHandler) ListRings(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		sse.Patch(h.renderRingList(h.rings.List()), "#ring-list")
	}), nil
}

func (h *RingHandler) CreateRing(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	config := parseRingSignals(signals)

	if config.Name == "" {
		return nil, huma.Error400BadRequest("Ring name is required")
	}
	if config.OuterRadius <= 0 {
		return nil, huma.Error400BadRequest("Outer radius must be positive")
	}

	return h.Stream(func(sse humastar.SSE) {
		created, err := h.rings.Create(config)
		if err != nil {
			sse.Error(err.Error())
			return
		}

		resetSignals := resetRingSignals()
		resetSignals["success"] = fmt.Sprintf("Ring '%s' created", created.Name)
		resetSignals["_editingRing"] = false
		sse.Signals(resetSignals)

		sse.Patch(h.renderRingList(h.rings.List()), "#ring-list")
		sse.DispatchCustomEvent("ring-changed", map[string]any{
			"action": "created", "id": created.ID, "name": created.Name,
		})
	}), nil
}

type DeleteRingInput struct {
	ID string `path:"id" doc:"Ring ID to delete"`
}

func (h *RingHandler) DeleteRing(ctx context.Context, input *DeleteRingInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		h.sweeps.Stop(input.ID)
		if err := h.rings.Delete(input.ID); err != nil {
			sse.Error(err.Error())
			return
		}

		sse.RemoveElementByID("ring-" + input.ID)
		sse.Success("Ring deleted")
		sse.DispatchCustomEvent("ring-changed", map[string]any{
			"action": "deleted", "id": input.ID,
		})
	}), nil
}

type ToggleSweepInput struct {
	ID string `path:"id" doc:"Ring ID whose sweep to toggle"`
}

// ToggleSweep starts the sweep if idle, stops it if running, then
// re-renders the ring's card so the button label flips.
func (h *RingHandler) ToggleSweep(ctx context.Context, input *ToggleSweepInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		var err error
		if h.sweeps.IsRunning(input.ID) {
			err = h.sweeps.Stop(input.ID)
		} else {
			err = h.sweeps.Start(input.ID)
		}
		if err != nil {
			sse.Error(err.Error())
			return
		}
		sse.Patch(h.renderRingList(h.rings.List()), "#ring-list")
	}), nil
}

type RingCardData struct {
	ID           string
	Name         string
	OuterRadius  float64
	Width        float64
	SegmentCount int
	Running      bool
	ConfigJSON   template.JS
}

func (h *RingHandler) renderRingList(rings map[string]service.RingConfig) string {
	var buf bytes.Buffer
	if len(rings) == 0 {
		h.Renderer.RenderToBuffer(&buf, "empty-state", map[string]string{
			"Title": "No rings configured", "Message": "Add a ring to get started",
		})
	} else {
		for id, ring := range rings {
			configJSON, _ := json.Marshal(map[string]any{
				"center": []float64{ring.CenterLon, ring.CenterLat},
				"fill":   ring.Fill, "stroke": ring.Stroke,
			})
			h.Renderer.RenderToBuffer(&buf, "ring-card", RingCardData{
				ID: id, Name: ring.Name,
				OuterRadius: ring.OuterRadius, Width: ring.Width,
				SegmentCount: ring.SegmentCount,
				Running:      h.sweeps.IsRunning(id),
				ConfigJSON:   template.JS(configJSON),
			})
		}
	}
	return buf.String()
}

// parseRingSignals maps Datastar form signals onto a ring config.
func parseRingSignals(signals humastar.Signals) service.RingConfig {
	return service.RingConfig{
		Name:         signals.String("ringName"),
		CenterLon:    signals.Float("ringCenterLon"),
		CenterLat:    signals.Float("ringCenterLat"),
		OuterRadius:  signals.Float("ringOuterRadius"),
		Width:        signals.Float("ringWidth"),
		SegmentCount: signals.Int("ringSegmentCount"),
		ActiveMs:     signals.Int("ringActiveMs"),
		StepMs:       signals.Int("ringStepMs"),
		Fill:         signals.String("ringFill"),
		Stroke:       signals.String("ringStroke"),
	}
}

// resetRingSignals returns the signal set that clears the ring form.
func resetRingSignals() map[string]any {
	return map[string]any{
		"ringName":         "",
		"ringCenterLon":    0,
		"ringCenterLat":    0,
		"ringOuterRadius":  0,
		"ringWidth":        0,
		"ringSegmentCount": 0,
		"ringActiveMs":     0,
		"ringStepMs":       0,
		"ringFill":         "",
		"ringStroke":       "",
	}
}
