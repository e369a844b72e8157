package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"maintenance_dashboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestActionAppend_FillsDefaultsAndNormalizes(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta(insertActionSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(),
			"generar_datos", "SUCCEEDED", "10 registros", "sess", `{"cantidad":10}`,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewActionLogSQLite(db).Append(testCtx(t), models.ActionRecord{
		Action:    " Generar_Datos ",
		Status:    "succeeded",
		Message:   "10 registros",
		SessionID: "sess",
		Payload:   map[string]int{"cantidad": 10},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestActionAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO action_log").WillReturnError(errors.New("down"))

	err = NewActionLogSQLite(db).Append(testCtx(t), models.ActionRecord{Action: "entrenar", Status: "FAILED"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
}

func TestActionList(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	cols := []string{"id", "occurred_at", "action", "status", "message", "session_id", "payload"}

	tests := []struct {
		name      string
		from, to  time.Time
		action    string
		wantQuery string
		wantArgs  []driver.Value
	}{
		{
			name:      "no filters",
			wantQuery: selectActionSQL + " ORDER BY occurred_at ASC",
		},
		{
			name:      "range and action",
			from:      now,
			to:        now.Add(time.Hour),
			action:    " RESET_IA ",
			wantQuery: selectActionSQL + " WHERE occurred_at >= ? AND occurred_at <= ? AND action = ? ORDER BY occurred_at ASC",
			wantArgs:  []driver.Value{"2025-01-01 10:00:00", "2025-01-01 11:00:00", "reset_ia"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock new: %v", err)
			}
			defer func() { _ = db.Close() }()

			rows := sqlmock.NewRows(cols).
				AddRow("1", now, "reset_ia", "DECLINED", "cancelado", "s", nil).
				AddRow("2", now.Add(time.Minute), "reset_ia", "SUCCEEDED", "ok", nil, `{"a":"b"}`).
				AddRow("3", now.Add(2*time.Minute), "reset_ia", "FAILED", "x", "s", `not json`)

			q := mock.ExpectQuery(regexp.QuoteMeta(tt.wantQuery))
			if tt.wantArgs != nil {
				q = q.WithArgs(tt.wantArgs...)
			}
			q.WillReturnRows(rows)

			got, err := NewActionLogSQLite(db).List(testCtx(t), tt.from, tt.to, tt.action)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("want 3 records, got %d", len(got))
			}
			if got[0].Payload != nil || got[0].SessionID != "s" {
				t.Fatalf("record 0: %+v", got[0])
			}
			if m, ok := got[1].Payload.(map[string]any); !ok || m["a"] != "b" || got[1].SessionID != "" {
				t.Fatalf("record 1: %+v", got[1])
			}
			if got[2].Payload != "not json" {
				t.Fatalf("malformed payload should be kept raw, got %#v", got[2].Payload)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("mock expectations: %v", err)
			}
		})
	}
}
