//go:build integration

// Integration test for the generated client SDK.
// Requires a running server: task run
//
// Run: go test -tags=integration ./pkg/ringclient/
package ringclient_test

import (
	"context"
	"os"
	"testing"

	"github.com/joeblew999/plat-ring/pkg/ringclient"
)

func baseURL() string {
	if u := os.Getenv("RING_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8087"
}

func client() ringclient.PlatRingAPIClient {
	return ringclient.New(baseURL())
}

func TestHealth(t *testing.T) {
	_, body, err := client().Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" {
		t.Fatalf("status=%q, want ok", body.Status)
	}
}

func TestGetInfo(t *testing.T) {
	_, body, err := client().GetInfo(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if body.Name != "plat-ring" {
		t.Fatalf("name=%q, want plat-ring", body.Name)
	}
}

func TestRingCRUDAndSweep(t *testing.T) {
	c := client()
	ctx := context.Background()

	_, _, err := c.ListRings(ctx)
	if err != nil {
		t.Fatal("list:", err)
	}

	_, created, err := c.CreateRing(ctx, ringclient.RingConfig{
		Name:        "Integration Test",
		CenterLon:   -97.405,
		CenterLat:   31.98,
		OuterRadius: 18000,
		Width:       600,
	})
	if err != nil {
		t.Fatal("create:", err)
	}

	_, ring, err := c.GetRing(ctx, created.ID)
	if err != nil {
		t.Fatal("get:", err)
	}
	if ring.Name != "Integration Test" {
		t.Fatalf("name=%q, want Integration Test", ring.Name)
	}

	_, _, err = c.GetRingGeoJSON(ctx, created.ID)
	if err != nil {
		t.Fatal("geojson:", err)
	}

	_, status, err := c.StartSweep(ctx, created.ID)
	if err != nil {
		t.Fatal("start sweep:", err)
	}
	if !status.Running {
		t.Fatal("sweep not running after start")
	}

	_, status, err = c.StopSweep(ctx, created.ID)
	if err != nil {
		t.Fatal("stop sweep:", err)
	}
	if status.Running {
		t.Fatal("sweep still running after stop")
	}

	_, _, err = c.DeleteRing(ctx, created.ID)
	if err != nil {
		t.Fatal("delete:", err)
	}
}

func TestQuery(t *testing.T) {
	_, body, err := client().Query(context.Background(), ringclient.QueryInputBody{
		Query: "SELECT 1 as ok",
	})
	if err != nil {
		t.Fatal(err)
	}
	if body.Count != 1 {
		t.Fatalf("count=%d, want 1", body.Count)
	}
}

func TestListTables(t *testing.T) {
	_, _, err := client().ListTables(context.Background())
	if err != nil {
		t.Fatal(err)
	}
}
