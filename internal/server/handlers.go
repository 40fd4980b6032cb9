package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/boxtree-io/boxtree/pkg/errors"
	"github.com/boxtree-io/boxtree/pkg/layout"
	"github.com/boxtree-io/boxtree/pkg/model"
	"github.com/boxtree-io/boxtree/pkg/pipeline"
)

// =============================================================================
// Layout Endpoints
// =============================================================================

type layoutRequest struct {
	Diagram model.Diagram    `json:"diagram"`
	Options pipeline.Options `json:"options"`
}

type layoutResponse struct {
	Diagram   model.Diagram      `json:"diagram"`
	Stats     pipeline.Stats     `json:"stats"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if err := req.Diagram.Validate(); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "invalid diagram"))
		return
	}

	// Layout only: no artifacts over this endpoint.
	start := time.Now()
	positioned, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Diagram, req.Options)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, layoutResponse{
		Diagram:   positioned,
		Stats:     pipeline.Stats{LayoutTime: time.Since(start)},
		CacheInfo: pipeline.CacheInfo{LayoutHit: hit},
	})
}

type fitRequest struct {
	Rectangles []model.Rectangle      `json:"rectangles"`
	ParentID   string                 `json:"parentId"`
	Algorithm  string                 `json:"algorithm,omitempty"`
	Margins    *model.Margins         `json:"margins,omitempty"`
	Fixed      *model.FixedDimensions `json:"fixedDimensions,omitempty"`
}

type fitResponse struct {
	MinWidth  float64 `json:"minWidth"`
	MinHeight float64 `json:"minHeight"`
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	var req fitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	if req.Algorithm != "" {
		if err := s.runner.Manager.SetAlgorithm(req.Algorithm); err != nil {
			s.respondError(w, err)
			return
		}
	}

	margins := model.DefaultMargins()
	if req.Margins != nil {
		margins = *req.Margins
	}

	size := s.runner.Manager.CalculateMinimumParentSize(req.ParentID, req.Rectangles, margins, req.Fixed)
	s.respondJSON(w, http.StatusOK, fitResponse{MinWidth: size.W, MinHeight: size.H})
}

type placeRequest struct {
	Rectangles []model.Rectangle `json:"rectangles"`
	ParentID   string            `json:"parentId"`
	Width      float64           `json:"width,omitempty"`
	Height     float64           `json:"height,omitempty"`
	Margins    *model.Margins    `json:"margins,omitempty"`
}

type placeResponse struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	margins := model.DefaultMargins()
	if req.Margins != nil {
		margins = *req.Margins
	}

	pos, size := s.runner.Manager.CalculateNewRectangleLayout(
		req.ParentID, req.Rectangles, layout.Size{W: req.Width, H: req.Height}, margins)
	s.respondJSON(w, http.StatusOK, placeResponse{X: pos.X, Y: pos.Y, Width: size.W, Height: size.H})
}

// =============================================================================
// Diagram CRUD
// =============================================================================

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, errors.New(errors.ErrCodeUnsupported, "no diagram store configured"))
		return
	}
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, errors.New(errors.ErrCodeUnsupported, "no diagram store configured"))
		return
	}
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, d)
}

func (s *Server) handlePutDiagram(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, errors.New(errors.ErrCodeUnsupported, "no diagram store configured"))
		return
	}

	var d model.Diagram
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	d.ID = chi.URLParam(r, "id")
	if err := d.Validate(); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "invalid diagram"))
		return
	}

	if err := s.store.Put(r.Context(), d); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, errors.New(errors.ErrCodeUnsupported, "no diagram store configured"))
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
