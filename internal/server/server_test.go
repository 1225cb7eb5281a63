package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/incidents/internal/filter"
	"github.com/ppiankov/incidents/internal/index"
	"github.com/ppiankov/incidents/internal/model"
	"github.com/ppiankov/incidents/internal/pipeline"
	"github.com/ppiankov/incidents/internal/sample"
)

// firstRand always picks the first candidate
type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

type stubFetcher struct {
	fallback map[int]bool
}

func (f stubFetcher) Fetch(ctx context.Context, id int) model.Incident {
	if f.fallback[id] {
		return pipeline.Fallback()
	}
	return model.Incident{ID: id, Name: "Person"}
}

func newTestServer(t *testing.T, fetcher stubFetcher) http.Handler {
	t.Helper()
	idx, err := index.New([]model.Group{
		{Race: model.RaceWhite, Armed: model.ArmedGun, N: 3, FullIDs: []int{1, 2}, DeficientIDs: []int{3}},
		{Race: model.RaceBlack, Armed: model.ArmedUnarmed, N: 2, FullIDs: []int{4}, DeficientIDs: []int{5}},
	})
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(idx, sample.NewSampler(idx, firstRand{}), fetcher, filter.BothTiers(), logger)
	return srv.Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

func TestStats(t *testing.T) {
	h := newTestServer(t, stubFetcher{})

	tests := []struct {
		target  string
		matched int
		percent int
		text    string
	}{
		{"/api/stats", 5, 100, "5 out of 5 people match your filters (100%)"},
		{"/api/stats?race=White", 3, 60, "3 out of 5 people match your filters (60%)"},
		{"/api/stats?race=White&armed=Unarmed", 0, 0, "0 out of 5 people match your filters (0%)"},
		{"/api/stats?race=none", 0, 0, "0 out of 5 people match your filters (0%)"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			resp := decode[statsResponse](t, rec)
			if resp.Matched != tt.matched || resp.Total != 5 || resp.Percent != tt.percent {
				t.Errorf("coverage: got %d/%d (%d%%)", resp.Matched, resp.Total, resp.Percent)
			}
			if resp.Text != tt.text {
				t.Errorf("text: got %q, want %q", resp.Text, tt.text)
			}
		})
	}
}

func TestStats_UnknownCategory(t *testing.T) {
	rec := get(t, newTestServer(t, stubFetcher{}), "/api/stats?race=Purple")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestGroups(t *testing.T) {
	rec := get(t, newTestServer(t, stubFetcher{}), "/api/groups?race=Black")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	got := decode[[]groupResponse](t, rec)
	want := []groupResponse{{Race: model.RaceBlack, Armed: model.ArmedUnarmed, N: 2, Full: 1, Deficient: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestDraw_Redirects(t *testing.T) {
	rec := get(t, newTestServer(t, stubFetcher{}), "/api/draw")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/incidents/1" {
		t.Errorf("location: got %q", loc)
	}
}

func TestDraw_TierRestrictsPool(t *testing.T) {
	rec := get(t, newTestServer(t, stubFetcher{}), "/api/draw?tier=deficient")
	if loc := rec.Header().Get("Location"); loc != "/api/incidents/3" {
		t.Errorf("location: got %q, want /api/incidents/3", loc)
	}
}

func TestDraw_NoResult(t *testing.T) {
	h := newTestServer(t, stubFetcher{})

	for _, target := range []string{
		"/api/draw?race=Hispanic",
		"/api/draw?tier=none",
	} {
		if rec := get(t, h, target); rec.Code != http.StatusNoContent {
			t.Errorf("%s: got %d, want 204", target, rec.Code)
		}
	}
}

func TestDraw_BadTier(t *testing.T) {
	rec := get(t, newTestServer(t, stubFetcher{}), "/api/draw?tier=some")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestIncident(t *testing.T) {
	rec := get(t, newTestServer(t, stubFetcher{}), "/api/incidents/3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	resp := decode[incidentResponse](t, rec)
	if resp.ID != 3 || resp.Name != "Person" {
		t.Errorf("incident: got %+v", resp.Incident)
	}
	want := &categoryResponse{Race: model.RaceWhite, Armed: model.ArmedGun, Tier: model.TierDeficient}
	if diff := cmp.Diff(want, resp.Category); diff != "" {
		t.Errorf("category mismatch (-want +got):\n%s", diff)
	}
}

func TestIncident_FallbackHasNoCategory(t *testing.T) {
	rec := get(t, newTestServer(t, stubFetcher{fallback: map[int]bool{4: true}}), "/api/incidents/4")

	resp := decode[incidentResponse](t, rec)
	if !resp.Fallback {
		t.Fatal("expected fallback record")
	}
	if resp.Category != nil {
		t.Errorf("fallback should carry no category, got %+v", resp.Category)
	}
}

func TestIncident_BadID(t *testing.T) {
	h := newTestServer(t, stubFetcher{})
	for _, target := range []string{"/api/incidents/abc", "/api/incidents/-1"} {
		if rec := get(t, h, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", target, rec.Code)
		}
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/stats?race=White", nil))

	out := buf.String()
	for _, want := range []string{"status=418", "uri=\"/api/stats?race=White\"", "method=GET"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %s", want, out)
		}
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	idx, _ := index.New(nil)
	srv := New(idx, sample.NewSampler(idx, nil), stubFetcher{}, filter.BothTiers(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, model.ServerConfig{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	}()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
