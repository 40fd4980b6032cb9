package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/boxtree-io/boxtree/pkg/model"
	"github.com/boxtree-io/boxtree/pkg/pipeline"
	"github.com/boxtree-io/boxtree/pkg/store"
)

func newTestServer(t *testing.T, st store.Store) *Server {
	t.Helper()
	return New(pipeline.NewRunner(nil, nil, nil, nil), st, nil)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func apiDiagram() model.Diagram {
	return model.Diagram{
		Name: "api-test",
		Rectangles: []model.Rectangle{
			{ID: "root", Type: model.TypeRoot},
			{ID: "a", ParentID: "root", Type: model.TypeLeaf},
			{ID: "b", ParentID: "root", Type: model.TypeLeaf},
		},
		Margins: model.DefaultMargins(),
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestLayoutEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/layout", layoutRequest{Diagram: apiDiagram()})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp layoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	root, ok := resp.Diagram.Find("root")
	if !ok || root.W == 0 || root.H == 0 {
		t.Errorf("root not laid out: %+v", root)
	}
	a, _ := resp.Diagram.Find("a")
	if a.W == 0 || a.H == 0 {
		t.Errorf("child not laid out: %+v", a)
	}
}

func TestLayoutEndpointInvalidBody(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/layout", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLayoutEndpointInvalidDiagram(t *testing.T) {
	s := newTestServer(t, nil)

	d := apiDiagram()
	d.Rectangles[1].ParentID = "nowhere"
	rec := doJSON(t, s, http.MethodPost, "/api/layout", layoutRequest{Diagram: d})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code == "" || resp.Error.Message == "" {
		t.Errorf("error body = %+v, want code and message", resp.Error)
	}
}

func TestFitEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/fit", fitRequest{
		Rectangles: []model.Rectangle{
			{ID: "p", Type: model.TypeParent},
			{ID: "a", ParentID: "p", Type: model.TypeLeaf},
			{ID: "b", ParentID: "p", Type: model.TypeLeaf},
			{ID: "c", ParentID: "p", Type: model.TypeLeaf},
			{ID: "d", ParentID: "p", Type: model.TypeLeaf},
		},
		ParentID:  "p",
		Algorithm: "grid",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp fitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.MinWidth != 15 || resp.MinHeight != 12 {
		t.Errorf("fit = %v×%v, want 15×12", resp.MinWidth, resp.MinHeight)
	}
}

func TestFitEndpointUnknownAlgorithm(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/fit", fitRequest{ParentID: "p", Algorithm: "bogus"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPlaceEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/place", placeRequest{
		Rectangles: []model.Rectangle{
			{ID: "r", Type: model.TypeRoot, W: 10, H: 8},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp placeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// New root goes to the right of the last one; size floors apply.
	if resp.X != 11 || resp.Y != 0 {
		t.Errorf("place = (%v, %v), want (11, 0)", resp.X, resp.Y)
	}
	if resp.Width != model.MinWidth || resp.Height != model.MinHeight {
		t.Errorf("size = %v×%v, want floored minimums", resp.Width, resp.Height)
	}
}

func TestDiagramCRUD(t *testing.T) {
	s := newTestServer(t, store.NewMemoryStore())

	// Put
	rec := doJSON(t, s, http.MethodPut, "/api/diagrams/d1", apiDiagram())
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200: %s", rec.Code, rec.Body)
	}

	// Get
	rec = doJSON(t, s, http.MethodGet, "/api/diagrams/d1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", rec.Code)
	}
	var got model.Diagram
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "d1" || got.Name != "api-test" {
		t.Errorf("GET = %+v, want stored diagram with assigned ID", got)
	}

	// List
	rec = doJSON(t, s, http.MethodGet, "/api/diagrams/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("LIST status = %d, want 200", rec.Code)
	}
	var infos []store.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].ID != "d1" {
		t.Errorf("LIST = %+v, want one entry d1", infos)
	}

	// Delete
	rec = doJSON(t, s, http.MethodDelete, "/api/diagrams/d1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/diagrams/d1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want 404", rec.Code)
	}
}

func TestDiagramEndpointsWithoutStore(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodGet, "/api/diagrams/", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestPutDiagramInvalid(t *testing.T) {
	s := newTestServer(t, store.NewMemoryStore())

	d := apiDiagram()
	d.Rectangles[0].Type = "blob"
	rec := doJSON(t, s, http.MethodPut, "/api/diagrams/d1", d)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
	}
}
