package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"maintenance_dashboard/internal/models"
	"maintenance_dashboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSessionSQLite_Advance_ReturnsBumpedGeneration(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewSessionSQLite(db)

	locTokyo := time.FixedZone("JST", 9*3600)
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, locTokyo)

	isExactUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		return ok && tm.Equal(at) && tm.Location() == time.UTC
	})

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO view_sessions")).
		WithArgs("s1", "analytics", isExactUTC).
		WillReturnRows(sqlmock.NewRows([]string{"generation"}).AddRow(4))

	got, err := repo.Advance(context.Background(), "s1", models.TabAnalytics, at)
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if got.SessionID != "s1" || got.Active != models.TabAnalytics || got.Generation != 4 {
		t.Fatalf("Advance() unexpected state: %+v", got)
	}
	if got.UpdatedAt.Location() != time.UTC {
		t.Fatalf("UpdatedAt not UTC: %v", got.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionSQLite_Advance_ErrorIsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	boom := errors.New("db down")
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO view_sessions")).
		WithArgs("s1", "db", sqlmock.AnyArg()).
		WillReturnError(boom)

	_, err = repository.NewSessionSQLite(db).Advance(context.Background(), "s1", models.TabDatabase, time.Time{})
	if !errors.Is(err, boom) {
		t.Fatalf("Advance() error = %v, want wrapped %v", err, boom)
	}
}

func TestSessionSQLite_Load(t *testing.T) {
	t.Run("unknown session yields zero state", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock.New(): %v", err)
		}
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT session_id, active_tab, generation, updated_at")).
			WithArgs("nobody").
			WillReturnError(sql.ErrNoRows)

		got, err := repository.NewSessionSQLite(db).Load(context.Background(), "nobody")
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if got != (models.ViewState{}) {
			t.Fatalf("Load() expected zero state, got %+v", got)
		}
	})

	t.Run("row converted to UTC", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock.New(): %v", err)
		}
		defer func() { _ = db.Close() }()

		nonUTC := time.Date(2024, 2, 1, 8, 30, 0, 0, time.FixedZone("EST", -5*3600))
		rows := sqlmock.NewRows([]string{"session_id", "active_tab", "generation", "updated_at"}).
			AddRow("s2", "scraping", 7, nonUTC)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT session_id, active_tab, generation, updated_at")).
			WithArgs("s2").
			WillReturnRows(rows)

		got, err := repository.NewSessionSQLite(db).Load(context.Background(), "s2")
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if got.Active != models.TabScraping || got.Generation != 7 || got.UpdatedAt.Location() != time.UTC {
			t.Fatalf("Load() unexpected state: %+v", got)
		}
	})
}

// Helpers

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}
