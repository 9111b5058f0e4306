package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/rs/zerolog"
)

func januaryWindow(active bool) models.Row {
	return models.Row{
		"id_fecha_parcial": int64(7),
		"id_asignacion":    int64(1),
		"numero_parcial":   int64(1),
		"fecha_inicio":     "2024-01-01T00:00:00",
		"fecha_fin":        "2024-01-31T23:59:59",
		"activo":           active,
	}
}

func at(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 12, 0, 0, 0, time.UTC) }
}

func TestCanUploadGrades(t *testing.T) {
	tests := []struct {
		name          string
		repo          *fakeWindowRepo
		now           func() time.Time
		requireActive bool
		allowed       bool
		message       string
	}{
		{"inside window", &fakeWindowRepo{row: januaryWindow(true)}, at(2024, time.January, 15), false, true, msgAllowed},
		{"before opening", &fakeWindowRepo{row: januaryWindow(true)}, at(2023, time.December, 31), false, false, "has not started yet"},
		{"after closing", &fakeWindowRepo{row: januaryWindow(true)}, at(2024, time.February, 1), false, false, "is over"},
		{"no window", &fakeWindowRepo{}, at(2024, time.January, 15), false, false, msgNoWindow},
		{"inactive ignored", &fakeWindowRepo{row: januaryWindow(false)}, at(2024, time.January, 15), false, true, msgAllowed},
		{"inactive required", &fakeWindowRepo{row: januaryWindow(false)}, at(2024, time.January, 15), true, false, msgInactive},
		{"store failure", &fakeWindowRepo{err: errStore}, at(2024, time.January, 15), false, false, "connection refused"},
		{
			"bad date",
			&fakeWindowRepo{row: models.Row{"fecha_inicio": "01/01/2024", "fecha_fin": "2024-01-31T23:59:59", "activo": true}},
			at(2024, time.January, 15), false, false, msgInvalidWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewGradeWindowValidator(tt.repo, zerolog.Nop(),
				WithClock(tt.now),
				WithLocation(time.UTC),
				WithRequireActive(tt.requireActive),
			)
			check := v.CanUploadGrades(context.Background(), 1, 1)
			if check.Allowed != tt.allowed {
				t.Fatalf("expected allowed=%v, got %+v", tt.allowed, check)
			}
			if !strings.Contains(check.Message, tt.message) {
				t.Fatalf("expected message containing %q, got %q", tt.message, check.Message)
			}
		})
	}
}

func TestCanUploadGradesReadsNaiveTimesInLocation(t *testing.T) {
	mexico := time.FixedZone("CST", -6*60*60)
	// 2024-02-01 03:00 UTC is still 2024-01-31 21:00 in UTC-6.
	now := func() time.Time { return time.Date(2024, time.February, 1, 3, 0, 0, 0, time.UTC) }

	v := NewGradeWindowValidator(&fakeWindowRepo{row: januaryWindow(true)}, zerolog.Nop(),
		WithClock(now),
		WithLocation(mexico),
	)
	if check := v.CanUploadGrades(context.Background(), 1, 1); !check.Allowed {
		t.Fatalf("expected upload allowed in local time, got %q", check.Message)
	}

	v = NewGradeWindowValidator(&fakeWindowRepo{row: januaryWindow(true)}, zerolog.Nop(),
		WithClock(now),
		WithLocation(time.UTC),
	)
	if check := v.CanUploadGrades(context.Background(), 1, 1); check.Allowed {
		t.Fatalf("expected upload rejected in UTC")
	}
}
