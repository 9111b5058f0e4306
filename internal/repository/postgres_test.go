package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestNormalizeValue(t *testing.T) {
	ts := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		dbType string
		in     any
		want   any
	}{
		{"null", "TEXT", nil, nil},
		{"date", "DATE", ts, "2024-01-15"},
		{"time", "TIME", time.Date(0, 1, 1, 7, 5, 0, 0, time.UTC), "07:05:00"},
		{"timestamp", "TIMESTAMP", ts, "2024-01-15T09:30:00"},
		{"timestamptz", "TIMESTAMPTZ", ts, "2024-01-15T09:30:00+00:00"},
		{"numeric", "NUMERIC", []byte("87.50"), 87.5},
		{"text bytes", "VARCHAR", []byte("abc"), "abc"},
		{"int32", "INT4", int32(7), int64(7)},
		{"int64", "INT8", int64(9), int64(9)},
		{"bool", "BOOL", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeValue(tt.dbType, tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestNormalizeValueJSON(t *testing.T) {
	got, err := normalizeValue("JSON", []byte(`{"nombre":"Álgebra","codigo":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", got)
	}
	if obj["nombre"] != "Álgebra" {
		t.Fatalf("expected nombre Álgebra, got %v", obj["nombre"])
	}
	if v, present := obj["codigo"]; !present || v != nil {
		t.Fatalf("expected codigo null, got %v", v)
	}
}

func TestNormalizeValueBadNumeric(t *testing.T) {
	if _, err := normalizeValue("NUMERIC", []byte("n/a")); err == nil {
		t.Fatalf("expected parse error for malformed numeric")
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"Juan":     "Juan",
		"50%":      `50\%`,
		"a_b":      `a\_b`,
		`back\sl`:  `back\\sl`,
		"%_%":      `\%\_\%`,
		"":         "",
		"Pérez Ñ": "Pérez Ñ",
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Fatalf("escapeLike(%q): expected %q, got %q", in, want, got)
		}
	}
	if got := containsPattern("x_y"); got != `%x\_y%` {
		t.Fatalf("unexpected contains pattern %q", got)
	}
}

func TestNameFilter(t *testing.T) {
	where, args := nameFilter([]string{"juan", "pé%"}, 2, "nombre", "apellido_paterno")

	want := "(nombre ILIKE $2 OR apellido_paterno ILIKE $2) AND (nombre ILIKE $3 OR apellido_paterno ILIKE $3)"
	if where != want {
		t.Fatalf("unexpected filter:\n got  %s\n want %s", where, want)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	if args[0] != "%juan%" || args[1] != `%pé\%%` {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestTranslateError(t *testing.T) {
	dup := translateError(&pq.Error{Code: "23505", Constraint: "curso_codigo_key"})
	if !errors.Is(dup, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", dup)
	}

	fk := translateError(fmt.Errorf("insert: %w", &pq.Error{Code: "23503"}))
	if !errors.Is(fk, ErrForeignKey) {
		t.Fatalf("expected ErrForeignKey, got %v", fk)
	}

	other := errors.New("connection refused")
	if got := translateError(other); got != other {
		t.Fatalf("expected error to pass through, got %v", got)
	}
}

func TestOptional(t *testing.T) {
	if optional[string](nil) != nil {
		t.Fatalf("expected nil for absent value")
	}
	s := "x"
	if optional(&s) != "x" {
		t.Fatalf("expected dereferenced value")
	}
}
