package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/rs/zerolog"
)

const (
	msgNoWindow      = "no grading window configured for this assignment and partial"
	msgInvalidWindow = "invalid date format in the grading window"
	msgInactive      = "the grading window for this partial is not active"
	msgAllowed       = "within the grading window, grades can be uploaded"
)

// GradeWindowValidator decides whether grades of a partial may be uploaded now.
type GradeWindowValidator struct {
	windows       repository.PartialWindowRepository
	requireActive bool
	loc           *time.Location
	now           func() time.Time
	logger        zerolog.Logger
}

type WindowOption func(*GradeWindowValidator)

// WithClock replaces the wall clock used for comparisons.
func WithClock(now func() time.Time) WindowOption {
	return func(v *GradeWindowValidator) { v.now = now }
}

// WithRequireActive makes an inactive window reject uploads.
func WithRequireActive(required bool) WindowOption {
	return func(v *GradeWindowValidator) { v.requireActive = required }
}

// WithLocation sets the zone naive window timestamps are read in.
func WithLocation(loc *time.Location) WindowOption {
	return func(v *GradeWindowValidator) {
		if loc != nil {
			v.loc = loc
		}
	}
}

func NewGradeWindowValidator(windows repository.PartialWindowRepository, logger zerolog.Logger, opts ...WindowOption) *GradeWindowValidator {
	v := &GradeWindowValidator{
		windows: windows,
		loc:     time.Local,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// CanUploadGrades never returns an error: lookup and format failures are
// reported as a disallowed check carrying the reason.
func (v *GradeWindowValidator) CanUploadGrades(ctx context.Context, assignmentID int64, partial int) models.UploadCheck {
	raw, err := v.windows.Find(ctx, assignmentID, partial)
	if err != nil {
		v.logger.Error().Err(err).
			Int64("assignment_id", assignmentID).
			Int("partial", partial).
			Msg("Failed to query grading window")
		return models.UploadCheck{Message: fmt.Sprintf("failed to query grading window: %v", err)}
	}
	if raw == nil {
		return models.UploadCheck{Message: msgNoWindow}
	}

	window, err := models.DecodeRow[models.PartialWindow](raw)
	if err != nil {
		var dateErr *models.InvalidDateFormatError
		if errors.As(err, &dateErr) {
			return models.UploadCheck{Message: msgInvalidWindow}
		}
		return models.UploadCheck{Message: fmt.Sprintf("invalid grading window: %v", err)}
	}
	if window.Opens.IsZero() || window.Closes.IsZero() {
		return models.UploadCheck{Message: msgInvalidWindow}
	}

	return v.evaluate(window)
}

func (v *GradeWindowValidator) evaluate(w *models.PartialWindow) models.UploadCheck {
	if v.requireActive && !w.Active {
		return models.UploadCheck{Message: msgInactive}
	}

	now := v.now()
	opens := w.Opens.In(v.loc)
	closes := w.Closes.In(v.loc)

	if now.Before(opens) {
		return models.UploadCheck{
			Message: fmt.Sprintf("the grading period has not started yet, it opens on %s", w.Opens.Display()),
		}
	}
	if now.After(closes) {
		return models.UploadCheck{
			Message: fmt.Sprintf("the grading period is over, it closed on %s", w.Closes.Display()),
		}
	}
	return models.UploadCheck{Allowed: true, Message: msgAllowed}
}
