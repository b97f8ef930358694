package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"slidesmith/agent"
	"slidesmith/config"
	"slidesmith/deck"
	"slidesmith/hydrate"
)

// Server exposes the app over HTTP for the interactive client.
type Server struct {
	app    *App
	hub    *Hub
	cfg    *config.Service
	logger func(string)
}

// NewServer creates the HTTP surface. cfg may be nil when runtime
// reconfiguration is not wired.
func NewServer(app *App, hub *Hub, cfg *config.Service, logger func(string)) *Server {
	return &Server{app: app, hub: hub, cfg: cfg, logger: logger}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/ws", s.hub.HandleWS)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	api.HandleFunc("/deck", s.handleDeckState).Methods(http.MethodGet)
	api.HandleFunc("/deck/view", s.handleDeckView).Methods(http.MethodGet)

	api.HandleFunc("/branding", s.handleGetBranding).Methods(http.MethodGet)
	api.HandleFunc("/branding", s.handleSetBranding).Methods(http.MethodPut)

	api.HandleFunc("/config", s.handleGetConfig).Methods(http.MethodGet)
	api.HandleFunc("/config", s.handleSetConfig).Methods(http.MethodPut)

	api.HandleFunc("/slides/{id}/content", s.handleSlideContent).Methods(http.MethodPatch)
	api.HandleFunc("/slides/{id}/title", s.handleSlideTitle).Methods(http.MethodPatch)
	api.HandleFunc("/slides/{id}/layout", s.handleSlideLayout).Methods(http.MethodPatch)
	api.HandleFunc("/slides/{id}/visual/geometry", s.handleVisualGeometry).Methods(http.MethodPatch)
	api.HandleFunc("/slides/{id}/visual/regenerate", s.handleRegenerateVisual).Methods(http.MethodPost)

	api.HandleFunc("/export/json", s.handleExportJSON).Methods(http.MethodGet)
	api.HandleFunc("/export/pdf", s.handleExportPDF).Methods(http.MethodGet)
	api.HandleFunc("/export/pptx", s.handleExportPPTX).Methods(http.MethodGet)

	api.HandleFunc("/decks", s.handleListDecks).Methods(http.MethodGet)
	api.HandleFunc("/decks", s.handleSaveDeck).Methods(http.MethodPost)
	api.HandleFunc("/decks/{id}/load", s.handleLoadDeck).Methods(http.MethodPost)
	api.HandleFunc("/decks/{id}", s.handleDeleteDeck).Methods(http.MethodDelete)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type generateRequest struct {
	Text        string `json:"text"`
	DetailLevel string `json:"detailLevel"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	level := agent.DetailLevel(req.DetailLevel)
	if level == "" {
		level = agent.DetailStandard
	}

	slides, err := s.app.GenerateDeck(r.Context(), req.Text, level)
	if err != nil {
		var synthErr *agent.SynthesisError
		if errors.As(err, &synthErr) {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"slides": slides})
}

func (s *Server) handleDeckState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.State())
}

func (s *Server) handleDeckView(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(s.app.RenderView()))
}

func (s *Server) handleGetBranding(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Branding())
}

func (s *Server) handleSetBranding(w http.ResponseWriter, r *http.Request) {
	var b deck.Branding
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	s.app.SetBranding(b)
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if s.cfg == nil {
		http.Error(w, "configuration service unavailable", http.StatusServiceUnavailable)
		return
	}
	cfg, err := s.cfg.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	if s.cfg == nil {
		http.Error(w, "configuration service unavailable", http.StatusServiceUnavailable)
		return
	}
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	// Save notifies subscribers, which rebuild the model client and swap
	// the app's services in place.
	if err := s.cfg.Save(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSlideContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content []string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := s.app.ReplaceSlideContent(mux.Vars(r)["id"], req.Content); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSlideTitle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := s.app.SetSlideTitle(mux.Vars(r)["id"], req.Title); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSlideLayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Layout string `json:"layout"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := s.app.SwitchSlideLayout(mux.Vars(r)["id"], deck.Layout(req.Layout)); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleVisualGeometry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width         *float64 `json:"width"`
		Scale         *float64 `json:"scale"`
		VerticalPos   *float64 `json:"verticalPos"`
		HorizontalPos *float64 `json:"horizontalPos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	upd := deck.GeometryUpdate{
		Width:         req.Width,
		Scale:         req.Scale,
		VerticalPos:   req.VerticalPos,
		HorizontalPos: req.HorizontalPos,
	}
	if err := s.app.UpdateVisualGeometry(mux.Vars(r)["id"], upd); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleRegenerateVisual(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind   string `json:"kind"`
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	v, err := s.app.RegenerateVisual(r.Context(), mux.Vars(r)["id"], deck.VisualKind(req.Kind), req.Prompt)
	if err != nil {
		// Surfaces to the triggering control; the slide's visual is
		// unchanged.
		var herr *hydrate.HydrationError
		if errors.As(err, &herr) {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) serveExport(w http.ResponseWriter, data []byte, err error, contentType, filename string) {
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := s.app.ExportJSON()
	s.serveExport(w, data, err, "application/json", "deck.json")
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	data, err := s.app.ExportPDF()
	s.serveExport(w, data, err, "application/pdf", "deck.pdf")
}

func (s *Server) handleExportPPTX(w http.ResponseWriter, r *http.Request) {
	data, err := s.app.ExportPPTX()
	s.serveExport(w, data, err,
		"application/vnd.openxmlformats-officedocument.presentationml.presentation", "deck.pptx")
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	records, err := s.app.ListDecks()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleSaveDeck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	rec, err := s.app.SaveDeck(req.ID, req.Title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleLoadDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.app.LoadDeck(mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.State())
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DeleteDeck(mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
