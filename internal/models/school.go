package models

import "encoding/json"

type Group struct {
	ID         string
	Name       string
	Generation string
	Faculty    string
}

func (g *Group) FromRow(raw Row) error {
	b := bind(raw)
	g.ID = b.str("id_grupo")
	g.Name = b.str("nombre_grupo")
	g.Generation = b.str("generacion")
	g.Faculty = b.str("facultad")
	return b.err
}

func (g Group) ToRow() Row {
	return Row{
		"id_grupo":     g.ID,
		"nombre_grupo": g.Name,
		"generacion":   g.Generation,
		"facultad":     g.Faculty,
	}
}

func (g Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.ToRow())
}

type Course struct {
	ID          string
	Name        string
	Code        *string
	Description *string
}

func (c *Course) FromRow(raw Row) error {
	b := bind(raw)
	c.ID = b.str("id_curso")
	c.Name = b.str("nombre")
	c.Code = b.optStr("codigo")
	c.Description = b.optStr("descripcion")
	return b.err
}

func (c Course) ToRow() Row {
	return Row{
		"id_curso":    c.ID,
		"nombre":      c.Name,
		"codigo":      optString(c.Code),
		"descripcion": optString(c.Description),
	}
}

func (c Course) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToRow())
}

// Assignment binds one course to one group taught by one teacher.
type Assignment struct {
	ID            int64
	CourseID      string
	GroupID       string
	TeacherID     string
	LessonPlanURL *string
}

func (a *Assignment) FromRow(raw Row) error {
	b := bind(raw)
	a.ID = b.integer("id_asignacion")
	a.CourseID = b.str("id_curso")
	a.GroupID = b.str("id_grupo")
	a.TeacherID = b.str("id_maestro")
	a.LessonPlanURL = b.optStr("planeacion_pdf_url")
	return b.err
}

func (a Assignment) ToRow() Row {
	return Row{
		"id_asignacion":      a.ID,
		"id_curso":           a.CourseID,
		"id_grupo":           a.GroupID,
		"id_maestro":         a.TeacherID,
		"planeacion_pdf_url": optString(a.LessonPlanURL),
	}
}

func (a Assignment) HasLessonPlan() bool {
	return a.LessonPlanURL != nil && *a.LessonPlanURL != ""
}

func (a Assignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToRow())
}

type ScheduleSlot struct {
	ID           int64
	AssignmentID int64
	Day          Weekday
	Start        TimeOfDay
	End          TimeOfDay
}

func (s *ScheduleSlot) FromRow(raw Row) error {
	b := bind(raw)
	s.ID = b.integer("id_horario")
	s.AssignmentID = b.integer("id_asignacion")
	s.Day = text[Weekday](b, "dia_semana")
	s.Start = text[TimeOfDay](b, "hora_inicio")
	s.End = text[TimeOfDay](b, "hora_fin")
	return b.err
}

func (s ScheduleSlot) ToRow() Row {
	return Row{
		"id_horario":    s.ID,
		"id_asignacion": s.AssignmentID,
		"dia_semana":    s.Day.String(),
		"hora_inicio":   s.Start.String(),
		"hora_fin":      s.End.String(),
	}
}

func (s ScheduleSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToRow())
}

// AvailabilitySlot is a weekly window a teacher declares as free.
type AvailabilitySlot struct {
	ID        int64
	TeacherID string
	Day       Weekday
	Start     TimeOfDay
	End       TimeOfDay
}

func (s *AvailabilitySlot) FromRow(raw Row) error {
	b := bind(raw)
	s.ID = b.integer("id_disponibilidad")
	s.TeacherID = b.str("id_maestro")
	s.Day = text[Weekday](b, "dia_semana")
	s.Start = text[TimeOfDay](b, "hora_inicio")
	s.End = text[TimeOfDay](b, "hora_fin")
	return b.err
}

func (s AvailabilitySlot) ToRow() Row {
	return Row{
		"id_disponibilidad": s.ID,
		"id_maestro":        s.TeacherID,
		"dia_semana":        s.Day.String(),
		"hora_inicio":       s.Start.String(),
		"hora_fin":          s.End.String(),
	}
}

func (s AvailabilitySlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToRow())
}
