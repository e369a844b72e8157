package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"maintenance_dashboard/internal/backend"
	"maintenance_dashboard/internal/models"
)

func TestRouter_CurrentBaseline(t *testing.T) {
	t.Parallel()

	r := NewRouter(newMemSessions(), models.TabEquipos)
	st, err := r.Current(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if st.SessionID != "s1" || st.Active != models.TabEquipos || st.Generation != 0 {
		t.Fatalf("baseline = %+v", st)
	}
}

func TestRouter_InvalidDefaultFallsBackToDashboard(t *testing.T) {
	t.Parallel()

	if r := NewRouter(newMemSessions(), "nope"); r.DefaultTab() != models.TabDashboard {
		t.Fatalf("default = %q", r.DefaultTab())
	}
}

func TestRouter_SelectBumpsGeneration(t *testing.T) {
	t.Parallel()

	r := NewRouter(newMemSessions(), models.TabDashboard)
	ctx := context.Background()
	first, err := r.Select(ctx, "s1", "db")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	second, err := r.Select(ctx, "s1", " IA ")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if first.Generation != 1 || second.Generation != 2 || second.Active != models.TabIA {
		t.Fatalf("first=%+v second=%+v", first, second)
	}
	cur, _ := r.Current(ctx, "s1")
	if cur != second {
		t.Fatalf("current %+v, want %+v", cur, second)
	}
}

func TestRouter_UnknownTabLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	sessions := newMemSessions()
	r := NewRouter(sessions, models.TabDashboard)
	ctx := context.Background()
	before, _ := r.Select(ctx, "s1", "equipos")

	if _, err := r.Select(ctx, "s1", "reports"); !errors.Is(err, ErrUnknownTab) {
		t.Fatalf("expected ErrUnknownTab, got %v", err)
	}
	after, _ := r.Current(ctx, "s1")
	if after != before {
		t.Fatalf("state changed: before=%+v after=%+v", before, after)
	}
}

func TestLoader_RendersActiveTab(t *testing.T) {
	t.Parallel()

	sessions := newMemSessions()
	r := NewRouter(sessions, models.TabDashboard)
	l := NewLoader(&fakeAPI{}, sessions, nil)
	ctx := context.Background()

	st, _ := r.Select(ctx, "s1", "recomendaciones")
	html, err := l.Load(ctx, st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.Contains(string(html), "Recomendaciones del Sistema") || !strings.Contains(string(html), "Sin datos") {
		t.Fatalf("unexpected fragment: %s", html)
	}
	if l.Inflight() != 0 {
		t.Fatalf("token not released")
	}
}

func TestLoader_BaselineStateLoads(t *testing.T) {
	t.Parallel()

	sessions := newMemSessions()
	r := NewRouter(sessions, models.TabScraping)
	l := NewLoader(&fakeAPI{}, sessions, nil)

	st, _ := r.Current(context.Background(), "fresh")
	if _, err := l.Load(context.Background(), st); err != nil {
		t.Fatalf("baseline load must not be stale: %v", err)
	}
}

func TestLoader_ErrorIsWrapped(t *testing.T) {
	t.Parallel()

	sessions := newMemSessions()
	api := &fakeAPI{errs: map[string]error{backend.PathConocimiento: transportErr(backend.PathConocimiento)}}
	l := NewLoader(api, sessions, nil)
	st, _ := NewRouter(sessions, models.TabDashboard).Select(context.Background(), "s1", "scraping")

	_, err := l.Load(context.Background(), st)
	if !errors.Is(err, backend.ErrTransport) || !strings.HasPrefix(err.Error(), "load scraping: ") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoader_NewerLoadSupersedesOlder(t *testing.T) {
	t.Parallel()

	sessions := newMemSessions()
	r := NewRouter(sessions, models.TabDashboard)
	var calls atomic.Int32
	started := make(chan struct{})
	api := &fakeAPI{gate: func(ctx context.Context, path string) error {
		if calls.Add(1) == 1 {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}}
	l := NewLoader(api, sessions, nil)
	ctx := context.Background()

	first, _ := r.Select(ctx, "s1", "scraping")
	errc := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx, first)
		errc <- err
	}()
	<-started

	second, _ := r.Select(ctx, "s1", "recomendaciones")
	if _, err := l.Load(ctx, second); err != nil {
		t.Fatalf("newer load: %v", err)
	}

	select {
	case err := <-errc:
		if !errors.Is(err, ErrStaleView) {
			t.Fatalf("older load = %v, want ErrStaleView", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("older load was not cancelled")
	}
}

func TestLoader_TabChangedDuringFetchIsStale(t *testing.T) {
	t.Parallel()

	sessions := newMemSessions()
	r := NewRouter(sessions, models.TabDashboard)
	api := &fakeAPI{}
	api.gate = func(ctx context.Context, path string) error {
		// the operator navigates away while the request is pending
		_, err := sessions.Advance(ctx, "s1", models.TabIA, time.Now())
		return err
	}
	l := NewLoader(api, sessions, nil)

	st, _ := r.Select(context.Background(), "s1", "recomendaciones")
	if _, err := l.Load(context.Background(), st); !errors.Is(err, ErrStaleView) {
		t.Fatalf("expected ErrStaleView, got %v", err)
	}
}

func TestViewService_Refresh(t *testing.T) {
	t.Parallel()

	sessions := newMemSessions()
	api := &fakeAPI{}
	v := &ViewService{Router: NewRouter(sessions, models.TabDashboard), Loader: NewLoader(api, sessions, nil)}
	ctx := context.Background()
	if _, err := v.Select(ctx, "s1", "equipos"); err != nil {
		t.Fatalf("Select: %v", err)
	}

	st, html, err := v.Refresh(ctx, "s1")
	if err != nil || st.Active != models.TabEquipos || html == "" {
		t.Fatalf("Refresh = (%+v, %d bytes, %v)", st, len(html), err)
	}
	if got := api.getPaths(); len(got) != 2 {
		t.Fatalf("refresh should reload the equipos view, requests=%v", got)
	}
}
