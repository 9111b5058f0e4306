package models

import (
	"encoding/json"
	"fmt"
)

// PartialCount is the number of partial exams per assignment.
const PartialCount = 3

type Grade struct {
	ID           int64
	StudentID    string
	AssignmentID int64
	Partials     [PartialCount]*float64
	PartialDates [PartialCount]*DateTime
}

func partialColumn(n int) string { return fmt.Sprintf("calificacion_parcial_%d", n) }

func partialDateColumn(n int) string { return fmt.Sprintf("fecha_parcial_%d", n) }

// PartialColumns returns the score and date columns of partial n (1-based).
func PartialColumns(n int) (string, string, error) {
	if !ValidPartial(n) {
		return "", "", fmt.Errorf("partial number must be between 1 and %d, got %d", PartialCount, n)
	}
	return partialColumn(n), partialDateColumn(n), nil
}

func ValidPartial(n int) bool {
	return n >= 1 && n <= PartialCount
}

func (g *Grade) FromRow(raw Row) error {
	b := bind(raw)
	g.ID = b.integer("id_calif_alum_curso")
	g.StudentID = b.str("id_alumno")
	g.AssignmentID = b.integer("id_asignacion")
	for i := 0; i < PartialCount; i++ {
		g.Partials[i] = b.optFloat(partialColumn(i + 1))
		g.PartialDates[i] = optText[DateTime](b, partialDateColumn(i+1))
	}
	return b.err
}

func (g Grade) ToRow() Row {
	row := Row{
		"id_calif_alum_curso": g.ID,
		"id_alumno":           g.StudentID,
		"id_asignacion":       g.AssignmentID,
		"calificacion_final":  optFloat(g.Final()),
	}
	for i := 0; i < PartialCount; i++ {
		row[partialColumn(i+1)] = optFloat(g.Partials[i])
		row[partialDateColumn(i+1)] = optStringer(g.PartialDates[i])
	}
	return row
}

// Partial returns the score of partial n (1-based), nil when absent.
func (g Grade) Partial(n int) *float64 {
	if !ValidPartial(n) {
		return nil
	}
	return g.Partials[n-1]
}

// Final is the mean of the three partials, absent unless all are present.
func (g Grade) Final() *float64 {
	var sum float64
	for _, p := range g.Partials {
		if p == nil {
			return nil
		}
		sum += *p
	}
	final := sum / PartialCount
	return &final
}

func (g Grade) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.ToRow())
}

// PartialWindow is the period during which grades of one partial may be
// uploaded for one assignment.
type PartialWindow struct {
	ID           int64
	AssignmentID int64
	Partial      int
	Opens        DateTime
	Closes       DateTime
	Active       bool
}

func (w *PartialWindow) FromRow(raw Row) error {
	b := bind(raw)
	w.ID = b.integer("id_fecha_parcial")
	w.AssignmentID = b.integer("id_asignacion")
	w.Partial = int(b.integer("numero_parcial"))
	w.Opens = text[DateTime](b, "fecha_inicio")
	w.Closes = text[DateTime](b, "fecha_fin")
	w.Active = b.boolean("activo")
	return b.err
}

func (w PartialWindow) ToRow() Row {
	return Row{
		"id_fecha_parcial": w.ID,
		"id_asignacion":    w.AssignmentID,
		"numero_parcial":   int64(w.Partial),
		"fecha_inicio":     w.Opens.String(),
		"fecha_fin":        w.Closes.String(),
		"activo":           w.Active,
	}
}

func (w PartialWindow) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.ToRow())
}
