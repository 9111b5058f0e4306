package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/rs/zerolog"
)

func availabilityRow(id int64, teacher, day, start, end string) models.Row {
	return models.Row{
		"id_disponibilidad": id,
		"id_maestro":        teacher,
		"dia_semana":        day,
		"hora_inicio":       start,
		"hora_fin":          end,
	}
}

func newAvailabilityFixture() (AvailabilityService, *fakeAvailabilityRepo) {
	repo := &fakeAvailabilityRepo{rows: []models.Row{
		availabilityRow(1, "MAE001", "lunes", "08:00:00", "10:00:00"),
		availabilityRow(2, "MAE001", "lunes", "12:00:00", "14:00:00"),
		availabilityRow(3, "MAE002", "martes", "08:00:00", "10:00:00"),
	}}
	return NewAvailabilityService(repo, nil, zerolog.Nop()), repo
}

func TestCreateAvailability(t *testing.T) {
	tests := []struct {
		name     string
		teacher  string
		req      models.SlotRequest
		conflict bool
	}{
		{"overlaps morning slot", "MAE001", models.SlotRequest{Day: "lunes", Start: "09:00", End: "11:00"}, true},
		{"inside afternoon slot", "MAE001", models.SlotRequest{Day: "Lunes", Start: "12:30", End: "13:00"}, true},
		{"between slots", "MAE001", models.SlotRequest{Day: "lunes", Start: "10:00", End: "12:00"}, false},
		{"other day", "MAE001", models.SlotRequest{Day: "martes", Start: "08:00", End: "10:00"}, false},
		{"other teacher's slot", "MAE002", models.SlotRequest{Day: "lunes", Start: "08:00", End: "10:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newAvailabilityFixture()

			slot, err := svc.Create(context.Background(), tt.teacher, &tt.req)
			if len(repo.days) != 1 {
				t.Fatalf("expected one same-day lookup, got %v", repo.days)
			}
			if tt.conflict {
				if !IsKind(err, KindConflict) {
					t.Fatalf("expected conflict, got %v", err)
				}
				if len(repo.created) != 0 {
					t.Fatalf("create must not be attempted on conflict")
				}
				return
			}
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if slot.TeacherID != tt.teacher || slot.ID == 0 || len(repo.created) != 1 {
				t.Fatalf("unexpected slot %+v", slot)
			}
		})
	}
}

func TestCreateAvailabilityInvalidSlot(t *testing.T) {
	svc, repo := newAvailabilityFixture()

	tests := []struct {
		req   models.SlotRequest
		field string
	}{
		{models.SlotRequest{Day: "funday", Start: "08:00", End: "09:00"}, "dia_semana"},
		{models.SlotRequest{Day: "lunes", Start: "8am", End: "09:00"}, "hora_inicio"},
		{models.SlotRequest{Day: "lunes", Start: "09:00", End: "09:00"}, "hora_fin"},
	}
	for _, tt := range tests {
		_, err := svc.Create(context.Background(), "MAE001", &tt.req)
		if !IsKind(err, KindValidation) || err.(*Error).Field != tt.field {
			t.Fatalf("%+v: expected validation on %s, got %v", tt.req, tt.field, err)
		}
	}
	if len(repo.created) != 0 || len(repo.days) != 0 {
		t.Fatalf("invalid slots must not reach the store")
	}
}

func TestUpdateAvailability(t *testing.T) {
	tests := []struct {
		name    string
		teacher string
		req     models.UpdateAvailabilityRequest
		kind    Kind
	}{
		{"moved onto itself", "MAE001", models.UpdateAvailabilityRequest{ID: 1, Day: "lunes", Start: "08:30", End: "09:30"}, 0},
		{"stretched to touch next slot", "MAE001", models.UpdateAvailabilityRequest{ID: 1, Day: "lunes", Start: "08:00", End: "12:00"}, 0},
		{"stretched over next slot", "MAE001", models.UpdateAvailabilityRequest{ID: 1, Day: "lunes", Start: "08:00", End: "13:00"}, KindConflict},
		{"moved to another day", "MAE001", models.UpdateAvailabilityRequest{ID: 2, Day: "viernes", Start: "12:00", End: "14:00"}, 0},
		{"another teacher's slot", "MAE001", models.UpdateAvailabilityRequest{ID: 3, Day: "martes", Start: "08:00", End: "09:00"}, KindNotFound},
		{"unknown slot", "MAE001", models.UpdateAvailabilityRequest{ID: 99, Day: "lunes", Start: "16:00", End: "17:00"}, KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newAvailabilityFixture()

			slot, err := svc.Update(context.Background(), tt.teacher, &tt.req)
			if tt.kind != 0 {
				if !IsKind(err, tt.kind) {
					t.Fatalf("expected %s, got %v", tt.kind, err)
				}
				if len(repo.updated) != 0 {
					t.Fatalf("update must not be attempted, got %d", len(repo.updated))
				}
				return
			}
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if slot.ID != tt.req.ID || slot.Day.String() != tt.req.Day || len(repo.updated) != 1 {
				t.Fatalf("unexpected slot %+v", slot)
			}
		})
	}
}

func TestListAvailabilityOrdersByWeek(t *testing.T) {
	repo := &fakeAvailabilityRepo{rows: []models.Row{
		availabilityRow(1, "MAE001", "viernes", "07:00:00", "08:00:00"),
		availabilityRow(2, "MAE001", "lunes", "12:00:00", "13:00:00"),
		availabilityRow(3, "MAE001", "miercoles", "09:00:00", "10:00:00"),
		availabilityRow(4, "MAE001", "lunes", "08:00:00", "09:00:00"),
	}}
	svc := NewAvailabilityService(repo, nil, zerolog.Nop())

	slots, err := svc.List(context.Background(), "MAE001")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []int64
	for _, s := range slots {
		got = append(got, s.ID)
	}
	if fmt.Sprint(got) != "[4 2 3 1]" {
		t.Fatalf("expected Monday first then start time, got %v", got)
	}
}

func TestCreateTeacher(t *testing.T) {
	duplicate := fmt.Errorf("%w: usuarios_pkey", repository.ErrDuplicate)

	tests := []struct {
		name      string
		users     map[string]models.Row
		createErr error
		birth     *string
		kind      Kind
		field     string
	}{
		{"stored", nil, nil, strPtr("1985-04-12"), 0, ""},
		{"user id taken", map[string]models.Row{"MAE010": {"id_usuario": "MAE010"}}, nil, nil, KindConflict, ""},
		{"insert races a duplicate", nil, duplicate, nil, KindConflict, ""},
		{"bad birth date", nil, nil, strPtr("12/04/1985"), KindValidation, "fecha_nacimiento"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teachers := &fakeTeacherRepo{createErr: tt.createErr}
			pub := &fakePublisher{}
			svc := NewTeacherService(teachers, &fakeUserRepo{users: tt.users}, nil, pub, zerolog.Nop())

			teacher, err := svc.Create(context.Background(), &models.CreateTeacherRequest{
				UserID:          "MAE010",
				Password:        "secreto1",
				Name:            " Laura ",
				PaternalSurname: "Mendoza",
				BirthDate:       tt.birth,
			})
			if tt.kind != 0 {
				if !IsKind(err, tt.kind) {
					t.Fatalf("expected %s, got %v", tt.kind, err)
				}
				if tt.field != "" && err.(*Error).Field != tt.field {
					t.Fatalf("expected field %s, got %s", tt.field, err.(*Error).Field)
				}
				if len(teachers.users) != 0 || len(teachers.teachers) != 0 {
					t.Fatalf("nothing may be stored on failure")
				}
				if len(pub.events) != 0 {
					t.Fatalf("no event expected, got %v", pub.events)
				}
				return
			}
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if len(teachers.users) != 1 || len(teachers.teachers) != 1 {
				t.Fatalf("user and teacher must be stored together")
			}
			user := teachers.users[0]
			if user.Role != models.RoleTeacher || user.PasswordHash == "secreto1" {
				t.Fatalf("unexpected user %+v", user)
			}
			if err := CheckPassword(user.PasswordHash, "secreto1"); err != nil {
				t.Fatalf("stored hash does not match password: %v", err)
			}
			if teacher.Name != "Laura" || teacher.BirthDate == nil || teacher.BirthDate.String() != "1985-04-12" {
				t.Fatalf("unexpected teacher %+v", teacher)
			}
			if len(pub.events) != 1 || pub.events[0] != models.EventTeacherCreated {
				t.Fatalf("expected teacher event, got %v", pub.events)
			}
		})
	}
}
