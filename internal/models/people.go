package models

import (
	"encoding/json"
	"strings"
)

type User struct {
	ID           string
	PasswordHash string
	Role         Role
	CreatedAt    *DateTime
}

func (u *User) FromRow(raw Row) error {
	b := bind(raw)
	u.ID = b.str("id_usuario")
	u.PasswordHash = b.str("contrasena")
	u.Role = text[Role](b, "role")
	u.CreatedAt = optText[DateTime](b, "fecha_creacion")
	return b.err
}

func (u User) ToRow() Row {
	return Row{
		"id_usuario":     u.ID,
		"contrasena":     u.PasswordHash,
		"role":           u.Role.String(),
		"fecha_creacion": optStringer(u.CreatedAt),
	}
}

// MarshalJSON never exposes the password hash.
func (u User) MarshalJSON() ([]byte, error) {
	row := u.ToRow()
	delete(row, "contrasena")
	return json.Marshal(row)
}

type Teacher struct {
	UserID          string
	Name            string
	PaternalSurname string
	MaternalSurname *string
	BirthDate       *Date
	Specialty       *string
}

func (t *Teacher) FromRow(raw Row) error {
	b := bind(raw)
	t.UserID = b.str("id_usuario")
	t.Name = b.str("nombre")
	t.PaternalSurname = b.str("apellido_paterno")
	t.MaternalSurname = b.optStr("apellido_materno")
	t.BirthDate = optText[Date](b, "fecha_nacimiento")
	t.Specialty = b.optStr("especialidad")
	return b.err
}

func (t Teacher) ToRow() Row {
	return Row{
		"id_usuario":       t.UserID,
		"nombre":           t.Name,
		"apellido_paterno": t.PaternalSurname,
		"apellido_materno": optString(t.MaternalSurname),
		"fecha_nacimiento": optStringer(t.BirthDate),
		"especialidad":     optString(t.Specialty),
		"nombre_completo":  t.FullName(),
	}
}

func (t Teacher) FullName() string {
	return FullName(t.Name, t.PaternalSurname, t.MaternalSurname)
}

func (t Teacher) NameParts() (string, string, string) {
	return t.Name, t.PaternalSurname, deref(t.MaternalSurname)
}

func (t Teacher) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToRow())
}

type Student struct {
	ID              string
	GroupID         string
	Name            string
	PaternalSurname string
	MaternalSurname *string
	BirthDate       *Date
	Sex             *Sex
}

func (s *Student) FromRow(raw Row) error {
	b := bind(raw)
	s.ID = b.str("id_alumno")
	s.GroupID = b.str("id_grupo")
	s.Name = b.str("nombre")
	s.PaternalSurname = b.str("apellido_paterno")
	s.MaternalSurname = b.optStr("apellido_materno")
	s.BirthDate = optText[Date](b, "fecha_nacimiento")
	s.Sex = optText[Sex](b, "sexo")
	return b.err
}

func (s Student) ToRow() Row {
	return Row{
		"id_alumno":        s.ID,
		"id_grupo":         s.GroupID,
		"nombre":           s.Name,
		"apellido_paterno": s.PaternalSurname,
		"apellido_materno": optString(s.MaternalSurname),
		"fecha_nacimiento": optStringer(s.BirthDate),
		"sexo":             optStringer(s.Sex),
		"nombre_completo":  s.FullName(),
	}
}

func (s Student) FullName() string {
	return FullName(s.Name, s.PaternalSurname, s.MaternalSurname)
}

func (s Student) NameParts() (string, string, string) {
	return s.Name, s.PaternalSurname, deref(s.MaternalSurname)
}

func (s Student) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToRow())
}

// FullName joins the name parts with single spaces, skipping empty ones.
func FullName(name, paternal string, maternal *string) string {
	return strings.Join(strings.Fields(name+" "+paternal+" "+deref(maternal)), " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
