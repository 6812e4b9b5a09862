package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/edgarintel/pipeline/internal/extract"
	"github.com/edgarintel/pipeline/internal/scheduler"
	"github.com/edgarintel/pipeline/internal/signal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeEventSource struct {
	events []signal.FeedEvent
}

func (f fakeEventSource) MASignalEventsSince(ctx context.Context, days int, cikFilter string) ([]signal.FeedEvent, error) {
	return f.events, nil
}

type emptyInsiderSource struct{}

func (emptyInsiderSource) InsiderTradesForCIK(ctx context.Context, cik string) ([]signal.InsiderTrade, error) {
	return nil, nil
}

func newTestHandler() *Handler {
	feed := signal.NewFeed(fakeEventSource{events: []signal.FeedEvent{
		{CompanyCIK: "0001234567", ItemNumbers: []string{"1.01", "5.02"}, RawText: "entered into a merger agreement"},
	}}, emptyInsiderSource{})

	marketScan := scheduler.NewScanCoordinator(fakeUniverse{ciks: []string{"1", "2"}}, fakeEightKIngester{})

	return &Handler{feed: feed, marketScan: marketScan}
}

type fakeUniverse struct {
	ciks []string
}

func (f fakeUniverse) AllCompanyCIKs(ctx context.Context) ([]string, error) {
	return f.ciks, nil
}

type fakeEightKIngester struct{}

func (fakeEightKIngester) IngestEightKFilings(ctx context.Context, cik string) error {
	return nil
}

func TestHandleGetFeedReturnsClassifiedSignals(t *testing.T) {
	h := newTestHandler()
	r := SetupRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/feed?days=30&limit=10&min_level=low", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if int(body["total"].(float64)) != 1 {
		t.Errorf("expected 1 signal, got %+v", body)
	}
}

func TestHandleMarketScanStartAndStatus(t *testing.T) {
	h := newTestHandler()
	r := SetupRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/feed/market-scan", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/feed/market-scan", nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusConflict {
		t.Errorf("expected 409 for concurrent scan, got %d", w2.Code)
	}

	req3 := httptest.NewRequest(http.MethodGet, "/feed/market-scan/status", nil)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, req3)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w3.Code)
	}
}

func TestHandleSanctionsSearchWithoutBackendReturns503(t *testing.T) {
	h := newTestHandler()
	r := SetupRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/sanctions/list/search?q=acme", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 with no SDN backend, got %d", w.Code)
	}
}

type fakeSDNSearcher struct {
	records []extract.OFACRecord
}

func (f fakeSDNSearcher) Search(ctx context.Context, q, entityType string) ([]extract.OFACRecord, error) {
	var out []extract.OFACRecord
	for _, rec := range f.records {
		if entityType != "" && rec.EntityType != entityType {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func TestHandleSanctionsSearchFiltersByEntityType(t *testing.T) {
	h := newTestHandler()
	h.WithSDNSearcher(fakeSDNSearcher{records: []extract.OFACRecord{
		{Name: "Acme Holdings", EntityType: "entity"},
		{Name: "John Doe", EntityType: "individual"},
	}})
	r := SetupRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/sanctions/list/search?entity_type=individual", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if int(body["total"].(float64)) != 1 {
		t.Errorf("expected 1 match, got %+v", body)
	}
}
