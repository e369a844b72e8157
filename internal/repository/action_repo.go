package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"maintenance_dashboard/internal/models"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type ActionLogSQLite struct {
	db *sql.DB
}

func NewActionLogSQLite(db *sql.DB) *ActionLogSQLite { return &ActionLogSQLite{db: db} }

// Ensure implementation of ActionLog interface at compile time.
var _ ActionLog = (*ActionLogSQLite)(nil)

const (
	insertActionSQL = `INSERT INTO action_log (id, occurred_at, action, status, message, session_id, payload) VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectActionSQL = `SELECT id, occurred_at, action, status, message, session_id, payload FROM action_log`

	sqliteTimestamp = "2006-01-02 15:04:05"
)

// Append inserts a record. Empty RecordID and OccurredAt are filled in.
func (r *ActionLogSQLite) Append(ctx context.Context, rec models.ActionRecord) error {
	if rec.RecordID == "" {
		rec.RecordID = uuid.NewString()
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now()
	}

	var payload *string
	if rec.Payload != nil {
		if b, err := json.Marshal(rec.Payload); err == nil {
			s := string(b)
			payload = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertActionSQL,
		rec.RecordID,
		rec.OccurredAt.UTC().Format(sqliteTimestamp),
		strings.ToLower(strings.TrimSpace(rec.Action)),
		strings.ToUpper(strings.TrimSpace(rec.Status)),
		rec.Message,
		rec.SessionID,
		payload,
	)
	if err != nil {
		return fmt.Errorf("append action %q: %w", rec.Action, err)
	}
	return nil
}

// List returns records in [from, to] (inclusive), optionally for one action, oldest first.
func (r *ActionLogSQLite) List(ctx context.Context, from, to time.Time, action string) ([]models.ActionRecord, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimestamp))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimestamp))
	}
	if action = strings.ToLower(strings.TrimSpace(action)); action != "" {
		conds = append(conds, "action = ?")
		args = append(args, action)
	}

	q := selectActionSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query action log: %w", err)
	}
	defer rows.Close()

	out := make([]models.ActionRecord, 0, 64)
	for rows.Next() {
		var (
			rec     models.ActionRecord
			session sql.NullString
			payload sql.NullString
		)
		if err := rows.Scan(&rec.RecordID, &rec.OccurredAt, &rec.Action, &rec.Status, &rec.Message, &session, &payload); err != nil {
			return nil, fmt.Errorf("scan action record: %w", err)
		}
		rec.OccurredAt = rec.OccurredAt.UTC()
		rec.SessionID = session.String

		if payload.Valid && payload.String != "" {
			var v any
			if err := json.Unmarshal([]byte(payload.String), &v); err == nil {
				rec.Payload = v
			} else {
				rec.Payload = payload.String // keep raw if malformed
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action log: %w", err)
	}
	return out, nil
}
