package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"maintenance_dashboard/internal/models"
	"maintenance_dashboard/internal/repository"
)

// LogFilter selects action log records. Zero bounds are open.
type LogFilter struct {
	From   time.Time // inclusive
	To     time.Time // inclusive
	Action string    // "" or one of the dispatcher actions
}

var errInvalidTimeRange = errors.New("invalid time range: from must be <= to")

type ActionLogService struct {
	repo repository.ActionLog
}

func NewActionLogService(repo repository.ActionLog) *ActionLogService {
	return &ActionLogService{repo: repo}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeAction(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}
	return from, to, normalizeAction(f.Action), nil
}

func (s *ActionLogService) List(ctx context.Context, f LogFilter) ([]models.ActionRecord, error) {
	from, to, action, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	if action != "" {
		if _, ok := actions[action]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
		}
	}
	return s.repo.List(ctx, from, to, action)
}
