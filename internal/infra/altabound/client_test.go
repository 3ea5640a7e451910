package altabound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/CChelak/dan-lab/internal/domain"
)

func layerMetadata(maxRecords int) map[string]any {
	return map[string]any{
		"maxRecordCount": maxRecords,
		"fields": []map[string]any{
			{"name": "OBJECTID"},
			{"name": "MD_NAME"},
			{"name": "MD_TYPE"},
		},
	}
}

func countyFeatureJSON(objectID int, name string, ring [][]float64) map[string]any {
	return map[string]any{
		"properties": map[string]any{"OBJECTID": objectID, "MD_NAME": name},
		"geometry": map[string]any{
			"type":        "Polygon",
			"coordinates": [][][]float64{ring},
		},
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.Client(), WithLayerURL(srv.URL+"/MapServer/114"))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestFields(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, layerMetadata(1000))
	}))

	got, err := c.Fields(context.Background())
	if err != nil {
		t.Fatalf("Fields error: %v", err)
	}
	if len(got) != 3 || got[1] != "MD_NAME" {
		t.Fatalf("fields = %v", got)
	}
}

func TestUnqueryableFields(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, layerMetadata(1000))
	}))

	unq, err := c.UnqueryableFields(context.Background(), []string{"MD_NAME", "POPULATION"})
	if err != nil {
		t.Fatalf("UnqueryableFields error: %v", err)
	}
	if len(unq) != 1 || unq[0] != "POPULATION" {
		t.Fatalf("unqueryable = %v", unq)
	}

	// The all-fields wildcard skips the check entirely.
	unq, err = c.UnqueryableFields(context.Background(), []string{"*"})
	if err != nil || unq != nil {
		t.Fatalf("wildcard should skip check, got %v, %v", unq, err)
	}
}

func TestCounties_PagesByMaxRecordCount(t *testing.T) {
	all := []map[string]any{
		countyFeatureJSON(1, "Lethbridge County", [][]float64{{-113.2, 49.5}, {-112.4, 49.5}, {-112.4, 50.0}, {-113.2, 50.0}}),
		countyFeatureJSON(2, "Warner County No. 5", [][]float64{{-112.9, 49.0}, {-111.7, 49.0}, {-111.7, 49.5}, {-112.9, 49.5}}),
		countyFeatureJSON(3, "Wheatland County", [][]float64{{-113.5, 50.7}, {-112.5, 50.7}, {-112.5, 51.3}, {-113.5, 51.3}}),
	}

	var queryCalls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("returnCountOnly") == "true":
			writeJSON(t, w, map[string]any{"count": len(all)})
		case r.URL.Path == "/MapServer/114/query":
			queryCalls++
			if q.Get("orderByFields") != "OBJECTID" {
				t.Errorf("orderByFields = %q", q.Get("orderByFields"))
			}
			step, _ := strconv.Atoi(q.Get("resultRecordCount"))
			offset, _ := strconv.Atoi(q.Get("resultOffset"))
			end := offset + step
			if end > len(all) {
				end = len(all)
			}
			var page []map[string]any
			if offset < len(all) {
				page = all[offset:end]
			}
			writeJSON(t, w, map[string]any{"type": "FeatureCollection", "features": page})
		default:
			writeJSON(t, w, layerMetadata(2))
		}
	}))

	counties, err := c.Counties(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Counties error: %v", err)
	}
	if len(counties) != 3 {
		t.Fatalf("counties = %d, want 3", len(counties))
	}
	if queryCalls != 2 {
		t.Fatalf("query pages = %d, want 2 (maxRecordCount=2)", queryCalls)
	}
	if counties[0].Name != "Lethbridge County" || counties[0].ObjectID != 1 {
		t.Fatalf("unexpected first county: %+v", counties[0])
	}
	if len(counties[0].Geometry) != 1 || len(counties[0].Geometry[0].Exterior()) != 4 {
		t.Fatalf("unexpected geometry: %+v", counties[0].Geometry)
	}
}

func TestCounty_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("returnCountOnly") == "true":
			writeJSON(t, w, map[string]any{"count": 0})
		default:
			writeJSON(t, w, layerMetadata(1000))
		}
	}))

	_, err := c.County(context.Background(), "Atlantis")
	if err == nil {
		t.Fatalf("expected not-found error")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found kind, got %v", err)
	}
}
