package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/rs/zerolog"
)

var gradingZone = time.FixedZone("CST", -6*60*60)

func newAssignmentFixture(windows *fakeWindowRepo, schedule *fakeScheduleRepo) (AssignmentService, *fakePublisher) {
	assignments := &fakeAssignmentRepo{owned: map[int64]models.Row{
		1: {"id_asignacion": int64(1), "id_curso": "MAT101", "id_grupo": "G1", "id_maestro": "MAE001"},
	}}
	pub := &fakePublisher{}
	svc := NewAssignmentService(assignments, nil, nil, nil, windows, schedule, nil, pub, gradingZone, zerolog.Nop())
	return svc, pub
}

func TestCreateWindowRejected(t *testing.T) {
	duplicate := fmt.Errorf("%w: fechas_parciales_id_asignacion_numero_parcial_key", repository.ErrDuplicate)

	tests := []struct {
		name       string
		windows    *fakeWindowRepo
		assignment int64
		partial    int
		opens      string
		closes     string
		kind       Kind
		field      string
	}{
		{"partial out of range", &fakeWindowRepo{}, 1, 4, "2024-01-01T00:00:00", "2024-01-31T23:59:59", KindValidation, "numero_parcial"},
		{"bad start", &fakeWindowRepo{}, 1, 1, "01/01/2024", "2024-01-31T23:59:59", KindValidation, "fecha_inicio"},
		{"close equals open", &fakeWindowRepo{}, 1, 1, "2024-01-10T08:00:00", "2024-01-10T08:00:00", KindValidation, "fecha_fin"},
		{"close before open", &fakeWindowRepo{}, 1, 1, "2024-01-31T00:00:00", "2024-01-01T00:00:00", KindValidation, "fecha_fin"},
		{"zoned close before naive open", &fakeWindowRepo{}, 1, 1, "2024-01-10T08:00:00", "2024-01-10T13:00:00Z", KindValidation, "fecha_fin"},
		{"unknown assignment", &fakeWindowRepo{}, 42, 1, "2024-01-01T00:00:00", "2024-01-31T23:59:59", KindNotFound, ""},
		{"window already exists", &fakeWindowRepo{row: januaryWindow(true)}, 1, 1, "2024-02-01T00:00:00", "2024-02-28T23:59:59", KindConflict, ""},
		{"unique constraint", &fakeWindowRepo{createErr: duplicate}, 1, 1, "2024-02-01T00:00:00", "2024-02-28T23:59:59", KindConflict, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, pub := newAssignmentFixture(tt.windows, &fakeScheduleRepo{})
			_, err := svc.CreateWindow(context.Background(), tt.assignment, &models.CreatePartialWindowRequest{
				Partial: tt.partial,
				Opens:   tt.opens,
				Closes:  tt.closes,
			})
			if !IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			if tt.field != "" && err.(*Error).Field != tt.field {
				t.Fatalf("expected field %s, got %s", tt.field, err.(*Error).Field)
			}
			if len(tt.windows.created) != 0 {
				t.Fatalf("no window may be stored, got %d", len(tt.windows.created))
			}
			if len(pub.events) != 0 {
				t.Fatalf("no event expected, got %v", pub.events)
			}
		})
	}
}

func TestCreateWindowConvertsZonedInput(t *testing.T) {
	windows := &fakeWindowRepo{}
	svc, pub := newAssignmentFixture(windows, &fakeScheduleRepo{})

	window, err := svc.CreateWindow(context.Background(), 1, &models.CreatePartialWindowRequest{
		Partial: 2,
		Opens:   "2024-03-01T14:00:00Z",
		Closes:  "2024-03-15T00:00:00-06:00",
	})
	if err != nil {
		t.Fatalf("create window: %v", err)
	}
	if got := window.Opens.String(); got != "2024-03-01T08:00:00" {
		t.Fatalf("opening must be stored as grading-zone wall clock, got %s", got)
	}
	if got := window.Closes.String(); got != "2024-03-15T00:00:00" {
		t.Fatalf("closing must be stored as grading-zone wall clock, got %s", got)
	}
	if window.Opens.Zoned() || window.Closes.Zoned() {
		t.Fatalf("stored window times must be naive")
	}
	if !window.Active || window.ID != 1 || len(windows.created) != 1 {
		t.Fatalf("unexpected stored window %+v", window)
	}
	if len(pub.events) != 1 || pub.events[0] != models.EventPartialWindowOpened {
		t.Fatalf("expected partial window event, got %v", pub.events)
	}
}

func TestCreateScheduleGroupOverlap(t *testing.T) {
	// A class of another assignment of the same group on Monday 08:00-10:00.
	groupRows := map[string][]models.Row{
		"G1": {{
			"id_horario":    int64(9),
			"id_asignacion": int64(2),
			"dia_semana":    "lunes",
			"hora_inicio":   "08:00:00",
			"hora_fin":      "10:00:00",
		}},
	}

	tests := []struct {
		name     string
		day      string
		start    string
		end      string
		conflict bool
	}{
		{"overlaps other class", "lunes", "09:00", "11:00", true},
		{"contains other class", "lunes", "07:00", "12:00", true},
		{"touches end", "lunes", "10:00", "12:00", false},
		{"touches start", "lunes", "06:00", "08:00", false},
		{"other day", "martes", "08:00", "10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := &fakeScheduleRepo{byGroup: groupRows}
			svc, _ := newAssignmentFixture(&fakeWindowRepo{}, schedule)

			slot, err := svc.CreateSchedule(context.Background(), 1, &models.SlotRequest{Day: tt.day, Start: tt.start, End: tt.end})
			if tt.conflict {
				if !IsKind(err, KindConflict) {
					t.Fatalf("expected conflict, got %v", err)
				}
				if other, ok := err.(*Error).Details.(models.ScheduleSlot); !ok || other.ID != 9 {
					t.Fatalf("conflict must carry the clashing slot, got %#v", err.(*Error).Details)
				}
				if len(schedule.created) != 0 {
					t.Fatalf("create must not be attempted on conflict")
				}
				return
			}
			if err != nil {
				t.Fatalf("create schedule: %v", err)
			}
			if slot.AssignmentID != 1 || len(schedule.created) != 1 {
				t.Fatalf("unexpected slot %+v", slot)
			}
		})
	}
}
