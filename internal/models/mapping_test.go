package models

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		raw     Row
		derived []string
	}{
		{
			name:   "student",
			record: &Student{},
			raw: Row{
				"id_alumno":        "A00001",
				"id_grupo":         "G1",
				"nombre":           "Juan",
				"apellido_paterno": "Pérez",
				"apellido_materno": "Lopez",
				"fecha_nacimiento": "2005-03-14",
				"sexo":             "M",
			},
			derived: []string{"nombre_completo"},
		},
		{
			name:   "teacher without optionals",
			record: &Teacher{},
			raw: Row{
				"id_usuario":       "MAE001",
				"nombre":           "Ana",
				"apellido_paterno": "Ruiz",
				"apellido_materno": nil,
				"fecha_nacimiento": nil,
				"especialidad":     nil,
			},
			derived: []string{"nombre_completo"},
		},
		{
			name:   "user",
			record: &User{},
			raw: Row{
				"id_usuario":     "ADM001",
				"contrasena":     "$2a$10$hash",
				"role":           "admin",
				"fecha_creacion": "2024-01-05T10:30:00.123456+00:00",
			},
		},
		{
			name:   "schedule slot",
			record: &ScheduleSlot{},
			raw: Row{
				"id_horario":    int64(4),
				"id_asignacion": int64(9),
				"dia_semana":    "miercoles",
				"hora_inicio":   "08:00:00",
				"hora_fin":      "09:30:00",
			},
		},
		{
			name:   "availability slot",
			record: &AvailabilitySlot{},
			raw: Row{
				"id_disponibilidad": int64(1),
				"id_maestro":        "MAE001",
				"dia_semana":        "lunes",
				"hora_inicio":       "08:00:00",
				"hora_fin":          "09:00:00",
			},
		},
		{
			name:   "grade",
			record: &Grade{},
			raw: Row{
				"id_calif_alum_curso":    int64(3),
				"id_alumno":              "A00001",
				"id_asignacion":          int64(9),
				"calificacion_parcial_1": 80.0,
				"fecha_parcial_1":        "2024-01-15T12:00:00",
				"calificacion_parcial_2": nil,
				"fecha_parcial_2":        nil,
				"calificacion_parcial_3": nil,
				"fecha_parcial_3":        nil,
			},
			derived: []string{"calificacion_final"},
		},
		{
			name:   "partial window",
			record: &PartialWindow{},
			raw: Row{
				"id_fecha_parcial": int64(2),
				"id_asignacion":    int64(9),
				"numero_parcial":   int64(1),
				"fecha_inicio":     "2024-01-01T00:00:00",
				"fecha_fin":        "2024-01-31T23:59:00",
				"activo":           true,
			},
		},
		{
			name:   "course",
			record: &Course{},
			raw: Row{
				"id_curso":    "MAT101",
				"nombre":      "Matemáticas",
				"codigo":      "MAT-1",
				"descripcion": "Curso introductorio",
			},
		},
		{
			name:   "assignment",
			record: &Assignment{},
			raw: Row{
				"id_asignacion":      int64(9),
				"id_curso":           "MAT101",
				"id_grupo":           "G1",
				"id_maestro":         "MAE001",
				"planeacion_pdf_url": nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.record.FromRow(tt.raw); err != nil {
				t.Fatalf("FromRow error: %v", err)
			}
			out := tt.record.ToRow()
			for _, key := range tt.derived {
				delete(out, key)
			}
			if !reflect.DeepEqual(out, tt.raw) {
				t.Fatalf("round trip mismatch\n got: %#v\nwant: %#v", out, tt.raw)
			}
		})
	}
}

func TestFromRowAbsentFieldsStayAbsent(t *testing.T) {
	var s Student
	if err := s.FromRow(Row{"id_alumno": "A1", "nombre": "Juan", "apellido_paterno": "Pérez"}); err != nil {
		t.Fatalf("FromRow error: %v", err)
	}
	if s.MaternalSurname != nil || s.BirthDate != nil || s.Sex != nil {
		t.Fatalf("expected absent optionals, got %+v", s)
	}
}

func TestFromRowInvalidEnum(t *testing.T) {
	var s Student
	err := s.FromRow(Row{"id_alumno": "A1", "sexo": "X"})

	var enumErr *InvalidEnumValueError
	if !errors.As(err, &enumErr) {
		t.Fatalf("expected InvalidEnumValueError, got %v", err)
	}
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "sexo" {
		t.Fatalf("expected field sexo, got %v", err)
	}
}

func TestFromRowInvalidDate(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		raw    Row
	}{
		{name: "date", record: &Teacher{}, raw: Row{"fecha_nacimiento": "14/03/2005"}},
		{name: "time", record: &AvailabilitySlot{}, raw: Row{"dia_semana": "lunes", "hora_inicio": "8am"}},
		{name: "datetime", record: &PartialWindow{}, raw: Row{"fecha_inicio": "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.FromRow(tt.raw)
			var dateErr *InvalidDateFormatError
			if !errors.As(err, &dateErr) {
				t.Fatalf("expected InvalidDateFormatError, got %v", err)
			}
		})
	}
}

func TestFromRowWrongType(t *testing.T) {
	var a Assignment
	err := a.FromRow(Row{"id_asignacion": "nine"})
	var typeErr *UnexpectedTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected UnexpectedTypeError, got %v", err)
	}
}

func TestFullName(t *testing.T) {
	maternal := "Lopez"
	blank := "  "
	tests := []struct {
		name     string
		student  Student
		expected string
	}{
		{name: "all parts", student: Student{Name: "Juan", PaternalSurname: "Pérez", MaternalSurname: &maternal}, expected: "Juan Pérez Lopez"},
		{name: "no maternal", student: Student{Name: "Ana", PaternalSurname: "Ruiz"}, expected: "Ana Ruiz"},
		{name: "extra spaces", student: Student{Name: " Ana  María ", PaternalSurname: "Ruiz", MaternalSurname: &blank}, expected: "Ana María Ruiz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.student.FullName(); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
			if got := tt.student.ToRow()["nombre_completo"]; got != tt.expected {
				t.Fatalf("expected nombre_completo %q, got %v", tt.expected, got)
			}
		})
	}
}

func ptr(f float64) *float64 { return &f }

func TestGradeFinal(t *testing.T) {
	tests := []struct {
		name     string
		partials [3]*float64
		expected *float64
	}{
		{name: "all present", partials: [3]*float64{ptr(80), ptr(90), ptr(100)}, expected: ptr(90)},
		{name: "fractional", partials: [3]*float64{ptr(7.5), ptr(8.25), ptr(9)}, expected: ptr(24.75 / 3)},
		{name: "one missing", partials: [3]*float64{ptr(80), ptr(90), nil}},
		{name: "none", partials: [3]*float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Grade{Partials: tt.partials}
			got := g.Final()
			switch {
			case tt.expected == nil && got != nil:
				t.Fatalf("expected absent final, got %v", *got)
			case tt.expected != nil && got == nil:
				t.Fatalf("expected final %v, got absent", *tt.expected)
			case tt.expected != nil && math.Abs(*got-*tt.expected) > 1e-9:
				t.Fatalf("expected final %v, got %v", *tt.expected, *got)
			}
		})
	}
}

func TestWeekdayAccentedAlias(t *testing.T) {
	for in, want := range map[string]Weekday{"miércoles": Wednesday, "sábado": Saturday, "lunes": Monday} {
		got, err := ParseWeekday(in)
		if err != nil || got != want {
			t.Fatalf("ParseWeekday(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseWeekday("monday"); err == nil {
		t.Fatalf("expected error for unknown weekday")
	}
	if Sunday.Index() != 6 || Monday.Index() != 0 {
		t.Fatalf("unexpected weekday ordering")
	}
}

func TestDateTimeParsing(t *testing.T) {
	tests := []struct {
		in    string
		out   string
		zoned bool
	}{
		{in: "2024-01-01T00:00:00", out: "2024-01-01T00:00:00"},
		{in: "2024-01-01 08:30", out: "2024-01-01T08:30:00"},
		{in: "2024-01-01", out: "2024-01-01T00:00:00"},
		{in: "2024-01-01T08:30:00.5", out: "2024-01-01T08:30:00.500000"},
		{in: "2024-01-01T08:30:00Z", out: "2024-01-01T08:30:00+00:00", zoned: true},
		{in: "2024-01-01T08:30:00-06:00", out: "2024-01-01T08:30:00-06:00", zoned: true},
	}

	for _, tt := range tests {
		d, err := ParseDateTime(tt.in)
		if err != nil {
			t.Fatalf("ParseDateTime(%q) error: %v", tt.in, err)
		}
		if d.String() != tt.out || d.Zoned() != tt.zoned {
			t.Fatalf("ParseDateTime(%q) = %s (zoned=%v), want %s (zoned=%v)", tt.in, d, d.Zoned(), tt.out, tt.zoned)
		}
	}
}

func TestNaiveDateTimeUsesLocation(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	d, err := ParseDateTime("2024-01-15T10:00:00")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := time.Date(2024, 1, 15, 16, 0, 0, 0, time.UTC)
	if got := d.In(loc); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestTimeOfDay(t *testing.T) {
	a, err := ParseTimeOfDay("08:00")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	b, err := ParseTimeOfDay("09:30:00")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !a.Before(b) || b.Before(a) || a.Compare(a) != 0 {
		t.Fatalf("unexpected ordering between %s and %s", a, b)
	}
	if a.String() != "08:00:00" || b.HHMM() != "09:30" {
		t.Fatalf("unexpected formatting %s %s", a, b.HHMM())
	}
	if _, err := ParseTimeOfDay("25:00"); err == nil {
		t.Fatalf("expected error for out of range hour")
	}
}

func TestUserJSONOmitsPassword(t *testing.T) {
	u := User{ID: "ADM001", PasswordHash: "secret-hash", Role: RoleAdmin}
	data, err := u.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if strings.Contains(string(data), "secret-hash") || strings.Contains(string(data), "contrasena") {
		t.Fatalf("password hash leaked: %s", data)
	}
}

func TestDecodeRows(t *testing.T) {
	rows := []Row{
		{"id_grupo": "G1", "nombre_grupo": "1A", "generacion": "2024", "facultad": "Ingeniería"},
		{"id_grupo": "G2", "nombre_grupo": "1B", "generacion": "2024", "facultad": "Ingeniería"},
	}
	groups, err := DecodeRows[Group](rows)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(groups) != 2 || groups[1].Name != "1B" {
		t.Fatalf("unexpected groups: %+v", groups)
	}

	g, err := DecodeRow[Group](nil)
	if err != nil || g != nil {
		t.Fatalf("expected nil group for nil row")
	}
}
