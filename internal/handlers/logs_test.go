package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"maintenance_dashboard/internal/models"
	"maintenance_dashboard/internal/service"
)

func getWithAuth(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestActionLogHandler_ListAndValidation(t *testing.T) {
	auth := &mockAuth{parseID: 99}
	now := time.Now().UTC().Truncate(time.Second)
	records := []models.ActionRecord{
		{RecordID: "r1", OccurredAt: now, Action: "entrenar", Status: service.StatusSucceeded, Message: "IA entrenada exitosamente"},
		{RecordID: "r2", OccurredAt: now.Add(time.Second), Action: "reset_ia", Status: service.StatusDeclined, Message: "Acción cancelada"},
	}
	logs := &mockActionLog{resp: records}
	s := &service.Service{
		Authorization: auth,
		ActionLog:     logs,
	}
	r := newTestRouter(s)

	// invalid 'from' → 400
	if w := getWithAuth(t, r, "/api/v1/actions?from=notatime"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	q := "/api/v1/actions?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) + "&action=entrenar"
	w := getWithAuth(t, r, q)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count   int                   `json:"count"`
		Actions []models.ActionRecord `json:"actions"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Actions) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if logs.lastAction != "entrenar" || !logs.lastFrom.Equal(now) {
		t.Fatalf("filter not forwarded: action=%q from=%v", logs.lastAction, logs.lastFrom)
	}
}

func TestActionLogHandler_DateOnlyToIsEndOfDay(t *testing.T) {
	logs := &mockActionLog{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, ActionLog: logs})

	if w := getWithAuth(t, r, "/api/v1/actions?to=2025-08-31"); w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	want := time.Date(2025, 8, 31, 23, 59, 59, 999999999, time.UTC)
	if !logs.lastTo.Equal(want) {
		t.Fatalf("to=%v, want %v", logs.lastTo, want)
	}
}

func TestActionLogHandler_Errors(t *testing.T) {
	cases := []struct {
		name  string
		query string
		err   error
		code  int
	}{
		{"from after to", "?from=2025-09-01&to=2025-08-01", nil, http.StatusBadRequest},
		{"bad to", "?to=ayer", nil, http.StatusBadRequest},
		{"unknown action", "?action=formatear", fmt.Errorf("%w: %q", service.ErrUnknownAction, "formatear"), http.StatusBadRequest},
		{"repository failure", "", errors.New("db closed"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: &mockAuth{}, ActionLog: &mockActionLog{err: tc.err}})
			if w := getWithAuth(t, r, "/api/v1/actions"+tc.query); w.Code != tc.code {
				t.Fatalf("status=%d, want %d (body=%s)", w.Code, tc.code, w.Body.String())
			}
		})
	}
}

func TestActionLogHandler_RequiresToken(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, ActionLog: &mockActionLog{}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/actions", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d", w.Code)
	}
}
