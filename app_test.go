package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"slidesmith/config"
	"slidesmith/database"
	"slidesmith/deck"
	"slidesmith/export"
)

const stubDeckResponse = `[
  {"title": "Opening", "layout": "TITLE", "content": [], "speakerNotes": "hello"},
  {"title": "Points", "layout": "CONTENT_BULLETS", "content": ["first", "second"]},
  {"title": "Thanks", "layout": "CLOSING", "content": []}
]`

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &schema.Message{Role: schema.Assistant, Content: s.response}, nil
}

func testApp(llm *stubLLM) *App {
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	cfg.RevealInterval = 5
	return NewApp(cfg, llm, nil, NewHub(nil), nil)
}

func TestGenerateDeckEndToEnd(t *testing.T) {
	app := testApp(&stubLLM{response: stubDeckResponse})

	slides, err := app.GenerateDeck(context.Background(), "raw notes", "standard")
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if len(slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(slides))
	}

	// The reveal scheduler was started; eventually the whole deck is visible.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if app.State().Visible == 3 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	state := app.State()
	if state.Visible != 3 {
		t.Fatalf("reveal never completed: visible=%d", state.Visible)
	}
	if state.RevealState != "complete" {
		t.Fatalf("expected complete, got %s", state.RevealState)
	}
}

func TestGenerateDeckFailureKeepsPreviousDeck(t *testing.T) {
	llm := &stubLLM{response: stubDeckResponse}
	app := testApp(llm)
	if _, err := app.GenerateDeck(context.Background(), "notes", "standard"); err != nil {
		t.Fatalf("first generation failed: %v", err)
	}

	llm.err = errors.New("model unavailable")
	if _, err := app.GenerateDeck(context.Background(), "more notes", "standard"); err == nil {
		t.Fatal("expected generation failure")
	}
	if got := len(app.State().Slides); got != 3 {
		t.Fatalf("failed generation must leave the previous deck intact, got %d slides", got)
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	app := testApp(&stubLLM{response: stubDeckResponse})
	if _, err := app.GenerateDeck(context.Background(), "notes", "brief"); err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	data, err := app.ExportJSON()
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	doc, err := export.NewJSONService(appIdentity).ImportDeck(data)
	if err != nil {
		t.Fatalf("exported document does not import: %v", err)
	}
	if len(doc.Slides) != 3 {
		t.Fatalf("expected 3 slides in export, got %d", len(doc.Slides))
	}
}

func TestServerGenerateAndState(t *testing.T) {
	app := testApp(&stubLLM{response: stubDeckResponse})
	srv := httptest.NewServer(NewServer(app, NewHub(nil), nil, nil).Router())
	defer srv.Close()

	body := bytes.NewBufferString(`{"text": "quarterly numbers", "detailLevel": "brief"}`)
	resp, err := http.Post(srv.URL+"/api/generate", "application/json", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var generated struct {
		Slides []deck.Slide `json:"slides"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if len(generated.Slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(generated.Slides))
	}

	stateResp, err := http.Get(srv.URL + "/api/deck")
	if err != nil {
		t.Fatalf("state request failed: %v", err)
	}
	defer stateResp.Body.Close()
	var state DeckState
	if err := json.NewDecoder(stateResp.Body).Decode(&state); err != nil {
		t.Fatalf("bad state response: %v", err)
	}
	if len(state.Slides) != 3 {
		t.Fatalf("state missing slides: %+v", state)
	}
}

func TestServerGenerateSynthesisFailure(t *testing.T) {
	app := testApp(&stubLLM{err: errors.New("model down")})
	srv := httptest.NewServer(NewServer(app, NewHub(nil), nil, nil).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/generate", "application/json",
		bytes.NewBufferString(`{"text": "notes"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("synthesis failure should map to 502, got %d", resp.StatusCode)
	}
}

func TestServerGenerateRequiresText(t *testing.T) {
	app := testApp(&stubLLM{response: stubDeckResponse})
	srv := httptest.NewServer(NewServer(app, NewHub(nil), nil, nil).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/generate", "application/json",
		bytes.NewBufferString(`{"detailLevel": "brief"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestServerSlideMutations(t *testing.T) {
	app := testApp(&stubLLM{response: stubDeckResponse})
	if _, err := app.GenerateDeck(context.Background(), "notes", "standard"); err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	srv := httptest.NewServer(NewServer(app, NewHub(nil), nil, nil).Router())
	defer srv.Close()

	id := app.State().Slides[1].ID
	patch := func(path, body string) *http.Response {
		req, _ := http.NewRequest(http.MethodPatch, srv.URL+path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("patch %s failed: %v", path, err)
		}
		return resp
	}

	resp := patch("/api/slides/"+id+"/title", `{"title": "Renamed"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("title patch: expected 200, got %d", resp.StatusCode)
	}

	resp = patch("/api/slides/"+id+"/content", `{"content": ["only item"]}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("content patch: expected 200, got %d", resp.StatusCode)
	}

	resp = patch("/api/slides/"+id+"/layout", `{"layout": "QUOTE"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("layout patch: expected 200, got %d", resp.StatusCode)
	}

	resp = patch("/api/slides/no-such-slide/title", `{"title": "x"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown slide: expected 404, got %d", resp.StatusCode)
	}

	s := app.State().Slides[1]
	if s.Title != "Renamed" || s.Layout != deck.LayoutQuote || len(s.Content) != 1 {
		t.Fatalf("mutations not applied: %+v", s)
	}
	if s.ID != id {
		t.Fatal("slide id changed across mutations")
	}
}

func TestApplyConfigSwapsSynthesis(t *testing.T) {
	app := testApp(&stubLLM{response: stubDeckResponse})
	if _, err := app.GenerateDeck(context.Background(), "notes", "standard"); err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	swapped := `[{"title": "Reloaded", "layout": "TITLE", "content": []}]`
	cfg := config.Default()
	cfg.APIKey = "sk-rotated"
	cfg.RevealInterval = 5
	app.ApplyConfig(cfg, &stubLLM{response: swapped})

	slides, err := app.GenerateDeck(context.Background(), "notes", "standard")
	if err != nil {
		t.Fatalf("generation after reconfigure failed: %v", err)
	}
	if len(slides) != 1 || slides[0].Title != "Reloaded" {
		t.Fatalf("reconfigured model not in use: %+v", slides)
	}
}

func TestLoadDeckCompletesReveal(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "decks.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer db.Close()

	cfg := config.Default()
	cfg.APIKey = "sk-test"
	cfg.RevealInterval = 60000
	app := NewApp(cfg, &stubLLM{response: stubDeckResponse}, database.NewDeckService(db), NewHub(nil), nil)

	if _, err := app.GenerateDeck(context.Background(), "notes", "standard"); err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	rec, err := app.SaveDeck("", "")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// The hour-long reveal interval keeps the timer pending; restoring the
	// saved deck must still leave the state complete, not revealing.
	if err := app.LoadDeck(rec.ID); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	state := app.State()
	if state.Visible != 3 {
		t.Fatalf("restored deck must be fully visible, got %d", state.Visible)
	}
	if state.RevealState != "complete" {
		t.Fatalf("restored deck stuck in state %q", state.RevealState)
	}
}

func TestServerConfigEndpoints(t *testing.T) {
	cfgService := config.NewService(t.TempDir(), nil)
	app := testApp(&stubLLM{response: stubDeckResponse})
	srv := httptest.NewServer(NewServer(app, NewHub(nil), cfgService, nil).Router())
	defer srv.Close()

	valid := config.Default()
	valid.APIKey = "sk-via-api"
	valid.ModelName = "gpt-4o-mini"
	payload, _ := json.Marshal(valid)
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/config", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("config put failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	persisted, err := cfgService.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if persisted.APIKey != "sk-via-api" || persisted.ModelName != "gpt-4o-mini" {
		t.Fatalf("config not persisted: %+v", persisted)
	}

	getResp, err := http.Get(srv.URL + "/api/config")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	defer getResp.Body.Close()
	var fetched config.Config
	if err := json.NewDecoder(getResp.Body).Decode(&fetched); err != nil {
		t.Fatalf("bad config response: %v", err)
	}
	if fetched.ModelName != "gpt-4o-mini" {
		t.Fatalf("get returned stale config: %+v", fetched)
	}

	invalid := config.Default()
	invalid.APIKey = "sk-x"
	invalid.RevealInterval = 0
	payload, _ = json.Marshal(invalid)
	req, _ = http.NewRequest(http.MethodPut, srv.URL+"/api/config", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("config put failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid config must be rejected with 400, got %d", resp.StatusCode)
	}
}

func TestServerBranding(t *testing.T) {
	app := testApp(&stubLLM{response: stubDeckResponse})
	srv := httptest.NewServer(NewServer(app, NewHub(nil), nil, nil).Router())
	defer srv.Close()

	b := deck.DefaultBranding()
	b.CompanyName = "Initech"
	b.DarkMode = true
	payload, _ := json.Marshal(b)
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/branding", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("branding put failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got := app.Branding()
	if got.CompanyName != "Initech" || !got.DarkMode {
		t.Fatalf("branding not applied: %+v", got)
	}
}

func TestServerExportOnPersistenceDisabledDeckList(t *testing.T) {
	app := testApp(&stubLLM{response: stubDeckResponse})
	srv := httptest.NewServer(NewServer(app, NewHub(nil), nil, nil).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/decks")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("disabled persistence should fail loudly, got %d", resp.StatusCode)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SLIDESMITH_API_KEY", "sk-env")
	t.Setenv("SLIDESMITH_MODEL", "gpt-env")
	t.Setenv("SLIDESMITH_BASE_URL", "")

	cfg := config.Default()
	cfg.BaseURL = "https://from-file"
	applyEnvOverrides(&cfg)

	if cfg.APIKey != "sk-env" || cfg.ModelName != "gpt-env" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.BaseURL != "https://from-file" {
		t.Fatal("empty env var must not clobber the file value")
	}
}
