// Package server exposes a precomputed dataset over HTTP: metadata,
// synchronous display passes, debounced parameter updates, and 2D
// slice previews.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	densmd "github.com/densmd/densmd"
	"github.com/densmd/densmd/render"
)

// Server serves one dataset. Pass computation is serialized: the
// dataset's region cache is a single slot and is not safe for
// concurrent passes.
type Server struct {
	ds    *densmd.Dataset
	sched *densmd.Scheduler

	mu     sync.Mutex // guards pass computation and latest
	latest *densmd.PassResult
}

// New creates a server around a precomputed dataset. updateDelay is
// the debounce window applied to POST /api/params bursts.
func New(ds *densmd.Dataset, updateDelay time.Duration) *Server {
	s := &Server{ds: ds}
	s.sched = densmd.NewScheduler(updateDelay, func(p densmd.PassParams) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.latest = s.ds.BuildArtifacts(p)
	})
	return s
}

// Router returns the HTTP routes of the server.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/api/dataset", s.datasetHandler)
	r.Post("/api/pass", s.passHandler)
	r.Post("/api/params", s.paramsHandler)
	r.Get("/api/artifacts", s.artifactsHandler)
	r.Get("/api/preview/{species}", s.previewHandler)
	return r
}

// speciesMeta is the per-species block of the dataset response.
type speciesMeta struct {
	Name     string                 `json:"name"`
	Raw      int                    `json:"rawPositions"`
	Averaged int                    `json:"averagedPositions"`
	Max      float64                `json:"maxDensity"`
	Defaults densmd.SpeciesSettings `json:"defaults"`
}

func (s *Server) datasetHandler(w http.ResponseWriter, r *http.Request) {
	species := make([]speciesMeta, 0, s.ds.Species.NSpecies())
	for _, name := range s.ds.Species.Names {
		defs, err := s.ds.DefaultSettings(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		st := s.ds.Stats[name]
		species = append(species, speciesMeta{
			Name:     name,
			Raw:      st.RawPositions.NVecs(),
			Averaged: st.AvgPositions.NVecs(),
			Max:      s.ds.Fields[name].Max,
			Defaults: defs,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"resolution": s.ds.Resolution,
		"boundsMin":  s.ds.Bounds.Min,
		"boundsMax":  s.ds.Bounds.Max,
		"origin":     s.ds.Origin,
		"spacing":    s.ds.Spacing,
		"cellCenter": s.ds.CellCenter,
		"sigma":      s.ds.Sigma,
		"colormaps":  render.Colormaps(),
		"species":    species,
	})
}

// passHandler computes a pass synchronously and returns its artifacts.
func (s *Server) passHandler(w http.ResponseWriter, r *http.Request) {
	var p densmd.PassParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	res := s.ds.BuildArtifacts(p)
	s.latest = res
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// paramsHandler schedules a debounced pass and returns immediately.
// Rapid updates collapse into a single computation.
func (s *Server) paramsHandler(w http.ResponseWriter, r *http.Request) {
	var p densmd.PassParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.sched.Request(p)
	w.WriteHeader(http.StatusAccepted)
}

// artifactsHandler returns the result of the most recent pass, or 204
// when no pass has completed yet.
func (s *Server) artifactsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res := s.latest
	s.mu.Unlock()
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// previewHandler renders one z-slice of a species' smoothed density
// as PNG, with the default transfer function. Query parameters k and
// scale select the slice and the pixel size per voxel.
func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "species")
	k := -1
	if v := r.URL.Query().Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid k", http.StatusBadRequest)
			return
		}
		k = n
	}
	scale := 2
	if v := r.URL.Query().Get("scale"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 16 {
			http.Error(w, "invalid scale", http.StatusBadRequest)
			return
		}
		scale = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defs, err := s.ds.DefaultSettings(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	full := densmd.ROIIndices{
		XMax: s.ds.Resolution - 1,
		YMax: s.ds.Resolution - 1,
		ZMax: s.ds.Resolution - 1,
	}
	res := s.ds.BuildArtifacts(densmd.PassParams{
		ROI:     full,
		Species: map[string]densmd.SpeciesSettings{name: defs},
	})
	if len(res.Volumes) == 0 {
		http.Error(w, "no volume produced for species "+name, http.StatusInternalServerError)
		return
	}
	v := res.Volumes[0]
	png, err := render.SlicePNG(v.RGBA, v.Dims, k, scale)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
