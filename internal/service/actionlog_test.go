package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"maintenance_dashboard/internal/models"
)

// fakeActionRepo is a minimal stub that satisfies the repository.ActionLog interface.
type fakeActionRepo struct {
	// captured inputs
	gotCtx    context.Context
	gotFrom   time.Time
	gotTo     time.Time
	gotAction string

	// configured outputs
	records []models.ActionRecord
	err     error

	calls    int
	appended []models.ActionRecord
}

func (f *fakeActionRepo) List(ctx context.Context, from, to time.Time, action string) ([]models.ActionRecord, error) {
	f.calls++
	f.gotCtx = ctx
	f.gotFrom = from
	f.gotTo = to
	f.gotAction = action
	return f.records, f.err
}

func (f *fakeActionRepo) Append(_ context.Context, rec models.ActionRecord) error {
	f.appended = append(f.appended, rec)
	return f.err
}

func fixedZone(name string, offsetSec int) *time.Location {
	return time.FixedZone(name, offsetSec)
}

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

// normalizeToUTC

func Test_normalizeToUTC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want func(time.Time) bool
	}{
		{
			name: "zero time remains zero",
			in:   time.Time{},
			want: func(out time.Time) bool { return out.IsZero() },
		},
		{
			name: "non-UTC converted to UTC preserving instant",
			in:   mustTimeIn(fixedZone("UTC+3", 3*3600), 2025, time.August, 1, 12, 34, 56),
			want: func(out time.Time) bool {
				exp := time.Date(2025, time.August, 1, 9, 34, 56, 0, time.UTC) // 12:34:56+03 == 09:34:56Z
				return out.Location() == time.UTC && out.Equal(exp)
			},
		},
		{
			name: "already UTC stays UTC and same instant",
			in:   time.Date(2025, time.August, 2, 0, 0, 0, 0, time.UTC),
			want: func(out time.Time) bool {
				exp := time.Date(2025, time.August, 2, 0, 0, 0, 0, time.UTC)
				return out.Location() == time.UTC && out.Equal(exp)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeToUTC(tc.in)
			if !tc.want(got) {
				t.Fatalf("unexpected normalizeToUTC result: %v (loc=%v)", got, got.Location())
			}
		})
	}
}

// normalizeAction

func Test_normalizeAction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		exp  string
	}{
		{name: "empty stays empty", in: "", exp: ""},
		{name: "trim spaces", in: "  entrenar ", exp: "entrenar"},
		{name: "lowercase", in: "RESET_IA", exp: "reset_ia"},
		{name: "spaces preserved except ends", in: " Generar_Datos ", exp: "generar_datos"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeAction(c.in)
			if got != c.exp {
				t.Fatalf("normalizeAction(%q) = %q; want %q", c.in, got, c.exp)
			}
		})
	}
}

// normalizeAndValidateFilter

func Test_normalizeAndValidateFilter(t *testing.T) {
	t.Parallel()

	fromLocal := mustTimeIn(fixedZone("UTC+2", 2*3600), 2025, time.September, 10, 10, 0, 0)
	toUTC := time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		in         LogFilter
		wantFrom   time.Time
		wantTo     time.Time
		wantAction string
		wantErr    error
	}{
		{
			name:       "all zero/empty ok",
			in:         LogFilter{},
			wantFrom:   time.Time{},
			wantTo:     time.Time{},
			wantAction: "",
			wantErr:    nil,
		},
		{
			name: "from after to -> error",
			in: LogFilter{
				From:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
				To:     time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
				Action: "entrenar",
			},
			wantErr: errInvalidTimeRange,
		},
		{
			name: "normalize tz and action",
			in: LogFilter{
				From:   fromLocal,
				To:     toUTC,
				Action: " ENTRENAR ",
			},
			wantFrom:   time.Date(2025, time.September, 10, 8, 0, 0, 0, time.UTC), // 10:00 +02 -> 08:00Z
			wantTo:     toUTC,
			wantAction: "entrenar",
			wantErr:    nil,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gotFrom, gotTo, gotAction, err := normalizeAndValidateFilter(tc.in)

			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected err %v; got %v", tc.wantErr, err)
			}
			// Only assert non-zero expectations for times
			if !tc.wantFrom.IsZero() && !gotFrom.Equal(tc.wantFrom) {
				t.Fatalf("from: got %v; want %v", gotFrom, tc.wantFrom)
			}
			if !tc.wantTo.IsZero() && !gotTo.Equal(tc.wantTo) {
				t.Fatalf("to: got %v; want %v", gotTo, tc.wantTo)
			}
			if tc.wantAction != "" && gotAction != tc.wantAction {
				t.Fatalf("action: got %q; want %q", gotAction, tc.wantAction)
			}
		})
	}
}

// ActionLogService.List

func TestActionLogService_List_DelegatesNormalizedParams(t *testing.T) {
	t.Parallel()

	frepo := &fakeActionRepo{
		records: []models.ActionRecord{
			{RecordID: "1"},
		},
	}
	svc := NewActionLogService(frepo)

	fromLocal := mustTimeIn(fixedZone("UTC+5", 5*3600), 2025, time.October, 1, 10, 0, 0)
	toLocal := mustTimeIn(fixedZone("UTC-2", -2*3600), 2025, time.October, 1, 12, 30, 0)
	ctx := context.Background()

	out, err := svc.List(ctx, LogFilter{
		From:   fromLocal,
		To:     toLocal,
		Action: "  RESET_IA ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].RecordID != "1" {
		t.Fatalf("unexpected records: %+v", out)
	}
	if frepo.calls != 1 {
		t.Fatalf("repo List should be called once, got %d", frepo.calls)
	}

	// Check normalized values passed to repo
	wantFrom := time.Date(2025, time.October, 1, 5, 0, 0, 0, time.UTC) // 10:00 +05 -> 05:00Z
	wantTo := time.Date(2025, time.October, 1, 14, 30, 0, 0, time.UTC) // 12:30 -02 -> 14:30Z

	if !frepo.gotFrom.Equal(wantFrom) {
		t.Fatalf("repo gotFrom=%v; want %v", frepo.gotFrom, wantFrom)
	}
	if !frepo.gotTo.Equal(wantTo) {
		t.Fatalf("repo gotTo=%v; want %v", frepo.gotTo, wantTo)
	}
	if frepo.gotAction != "reset_ia" {
		t.Fatalf("repo gotAction=%q; want %q", frepo.gotAction, "reset_ia")
	}
}

func TestActionLogService_List_ValidationError(t *testing.T) {
	t.Parallel()

	frepo := &fakeActionRepo{}
	svc := NewActionLogService(frepo)

	_, err := svc.List(context.Background(), LogFilter{
		From: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, errInvalidTimeRange) {
		t.Fatalf("expected errInvalidTimeRange; got %v", err)
	}
	if frepo.calls != 0 {
		t.Fatalf("repo should not be called on validation error, calls=%d", frepo.calls)
	}
}

func TestActionLogService_List_RepoErrorPropagation(t *testing.T) {
	t.Parallel()

	frepo := &fakeActionRepo{err: errors.New("db down")}
	svc := NewActionLogService(frepo)

	_, err := svc.List(context.Background(), LogFilter{})
	if !errors.Is(err, frepo.err) {
		t.Fatalf("expected repo error to propagate; got %v", err)
	}
	if frepo.calls != 1 {
		t.Fatalf("repo should be called once, calls=%d", frepo.calls)
	}
}

func TestActionLogService_List_ZeroBoundsPassedAsZero(t *testing.T) {
	t.Parallel()

	frepo := &fakeActionRepo{}
	svc := NewActionLogService(frepo)

	_, err := svc.List(context.Background(), LogFilter{
		From:   time.Time{},
		To:     time.Time{},
		Action: "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !frepo.gotFrom.IsZero() || !frepo.gotTo.IsZero() || frepo.gotAction != "" {
		t.Fatalf("expected zero bounds and empty action; got from=%v to=%v action=%q", frepo.gotFrom, frepo.gotTo, frepo.gotAction)
	}
}

func TestActionLogService_List_UnknownAction(t *testing.T) {
	t.Parallel()

	frepo := &fakeActionRepo{}
	svc := NewActionLogService(frepo)

	_, err := svc.List(context.Background(), LogFilter{Action: "format_disk"})
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction; got %v", err)
	}
	if frepo.calls != 0 {
		t.Fatalf("repo should not be called, calls=%d", frepo.calls)
	}
}
