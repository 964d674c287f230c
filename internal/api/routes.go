// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"
	"github.com/joeblew999/plat-ring/internal/geodesic"
	"github.com/joeblew999/plat-ring/internal/humastar"
	"github.com/joeblew999/plat-ring/internal/service"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Ring  *service.RingService
	Sweep *service.SweepService
}

// Types

type IDInput struct {
	ID string `path:"id" doc:"Ring ID" example:"lake_whitney"`
}

type RingOutput struct {
	Body service.RingConfig
}

type RingsOutput struct {
	Body map[string]service.RingConfig
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type CreatedRingBody struct {
	ID      string             `json:"id" doc:"Generated ring ID"`
	Ring    service.RingConfig `json:"ring" doc:"Created ring configuration"`
	Message string             `json:"message" doc:"Result message"`
}

type SweepStatusBody struct {
	Ring    string `json:"ring" doc:"Ring ID"`
	Running bool   `json:"running" doc:"Whether a sweep is active"`
}

// Actions emits the state-dependent sweep control link: start when idle,
// stop when running.
func (b SweepStatusBody) Actions() []humastar.Action {
	href := "/api/v1/rings/" + b.Ring + "/sweep"
	if b.Running {
		return []humastar.Action{{
			Rel: "stop", Href: href, Method: "DELETE", Title: "Stop sweep",
		}}
	}
	return []humastar.Action{{
		Rel: "start", Href: href, Method: "POST", Title: "Start sweep",
	}}
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// GeoJSONOutput carries a pre-marshaled FeatureCollection.
type GeoJSONOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterRings registers ring CRUD routes.
func (h *APIHandler) RegisterRings(api huma.API) {
	huma.Get(api, "/api/v1/rings", h.GetRings, huma.OperationTags("rings"))
	huma.Post(api, "/api/v1/rings", h.CreateRing, huma.OperationTags("rings"))
	huma.Get(api, "/api/v1/rings/{id}", h.GetRing, huma.OperationTags("rings"))
	huma.Put(api, "/api/v1/rings/{id}", h.PutRing, huma.OperationTags("rings"))
	huma.Delete(api, "/api/v1/rings/{id}", h.DeleteRing, huma.OperationTags("rings"))
}

// RegisterGeometry registers the GeoJSON geometry route.
func (h *APIHandler) RegisterGeometry(api huma.API) {
	huma.Get(api, "/api/v1/rings/{id}/geojson", h.GetRingGeoJSON, huma.OperationTags("rings"))
}

// RegisterSweep registers sweep control routes.
func (h *APIHandler) RegisterSweep(api huma.API) {
	huma.Get(api, "/api/v1/rings/{id}/sweep", h.GetSweep, huma.OperationTags("sweep"))
	huma.Post(api, "/api/v1/rings/{id}/sweep", h.StartSweep, huma.OperationTags("sweep"))
	huma.Delete(api, "/api/v1/rings/{id}/sweep", h.StopSweep, huma.OperationTags("sweep"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) GetRings(ctx context.Context, input *struct{}) (*RingsOutput, error) {
	if h.svc == nil || h.svc.Ring == nil {
		return &RingsOutput{Body: map[string]service.RingConfig{}}, nil
	}
	return &RingsOutput{Body: h.svc.Ring.List()}, nil
}

func (h *APIHandler) CreateRing(ctx context.Context, input *struct{ Body service.RingConfig }) (*struct{ Body CreatedRingBody }, error) {
	if h.svc == nil || h.svc.Ring == nil {
		return nil, huma.Error400BadRequest("service not available")
	}
	created, err := h.svc.Ring.Create(input.Body)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &struct{ Body CreatedRingBody }{Body: CreatedRingBody{
		ID: created.ID, Ring: created, Message: "Ring created",
	}}, nil
}

func (h *APIHandler) GetRing(ctx context.Context, input *IDInput) (*RingOutput, error) {
	if h.svc == nil || h.svc.Ring == nil {
		return nil, huma.Error404NotFound("service not available")
	}
	ring, ok := h.svc.Ring.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("ring not found")
	}
	return &RingOutput{Body: ring}, nil
}

func (h *APIHandler) PutRing(ctx context.Context, input *struct {
	IDInput
	Body service.RingConfig
}) (*RingOutput, error) {
	if h.svc == nil || h.svc.Ring == nil {
		return nil, huma.Error400BadRequest("service not available")
	}
	updated, err := h.svc.Ring.Update(input.ID, input.Body)
	if err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}
	return &RingOutput{Body: updated}, nil
}

func (h *APIHandler) DeleteRing(ctx context.Context, input *IDInput) (*struct{ Body MessageBody }, error) {
	if h.svc == nil || h.svc.Ring == nil {
		return nil, huma.Error400BadRequest("service not available")
	}
	if err := h.svc.Ring.Delete(input.ID); err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Ring deleted"}}, nil
}

// GetRingGeoJSON builds the ring's geometry and returns it as a GeoJSON
// FeatureCollection: buffer disc, annulus band, and one feature per segment.
func (h *APIHandler) GetRingGeoJSON(ctx context.Context, input *IDInput) (*GeoJSONOutput, error) {
	if h.svc == nil || h.svc.Ring == nil {
		return nil, huma.Error404NotFound("service not available")
	}
	ring, ok := h.svc.Ring.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("ring not found")
	}

	rs, err := geodesic.Build(ring.Geometry())
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	data, err := json.Marshal(rs.FeatureCollection())
	if err != nil {
		return nil, huma.Error500InternalServerError("encoding geometry", err)
	}
	return &GeoJSONOutput{ContentType: "application/geo+json", Body: data}, nil
}

func (h *APIHandler) GetSweep(ctx context.Context, input *IDInput) (*struct{ Body SweepStatusBody }, error) {
	if h.svc == nil || h.svc.Sweep == nil {
		return nil, huma.Error404NotFound("service not available")
	}
	if _, ok := h.svc.Ring.Get(input.ID); !ok {
		return nil, huma.Error404NotFound("ring not found")
	}
	return &struct{ Body SweepStatusBody }{Body: SweepStatusBody{
		Ring: input.ID, Running: h.svc.Sweep.IsRunning(input.ID),
	}}, nil
}

// StartSweep begins the highlight cycle for a ring. Starting an already
// running sweep is a no-op that still reports running=true.
func (h *APIHandler) StartSweep(ctx context.Context, input *IDInput) (*struct{ Body SweepStatusBody }, error) {
	if h.svc == nil || h.svc.Sweep == nil {
		return nil, huma.Error400BadRequest("service not available")
	}
	if err := h.svc.Sweep.Start(input.ID); err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}
	return &struct{ Body SweepStatusBody }{Body: SweepStatusBody{Ring: input.ID, Running: true}}, nil
}

// StopSweep halts the highlight cycle. Stopping an idle sweep is a no-op.
func (h *APIHandler) StopSweep(ctx context.Context, input *IDInput) (*struct{ Body SweepStatusBody }, error) {
	if h.svc == nil || h.svc.Sweep == nil {
		return nil, huma.Error400BadRequest("service not available")
	}
	if err := h.svc.Sweep.Stop(input.ID); err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}
	return &struct{ Body SweepStatusBody }{Body: SweepStatusBody{Ring: input.ID, Running: false}}, nil
}
