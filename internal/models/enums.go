package models

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "maestro"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleTeacher:
		return r, nil
	}
	return "", &InvalidEnumValueError{Enum: "role", Value: s}
}

func (r Role) String() string { return string(r) }

func (r Role) MarshalText() ([]byte, error) { return []byte(r), nil }

func (r *Role) UnmarshalText(data []byte) error {
	parsed, err := ParseRole(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
	SexOther  Sex = "O"
)

func ParseSex(s string) (Sex, error) {
	switch x := Sex(s); x {
	case SexMale, SexFemale, SexOther:
		return x, nil
	}
	return "", &InvalidEnumValueError{Enum: "sexo", Value: s}
}

func (s Sex) String() string { return string(s) }

func (s Sex) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *Sex) UnmarshalText(data []byte) error {
	parsed, err := ParseSex(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Weekday is stored without accents; accented spellings are accepted.
type Weekday string

const (
	Monday    Weekday = "lunes"
	Tuesday   Weekday = "martes"
	Wednesday Weekday = "miercoles"
	Thursday  Weekday = "jueves"
	Friday    Weekday = "viernes"
	Saturday  Weekday = "sabado"
	Sunday    Weekday = "domingo"
)

// Weekdays lists the days in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayAliases = map[string]Weekday{
	"miércoles": Wednesday,
	"sábado":    Saturday,
}

func ParseWeekday(s string) (Weekday, error) {
	for _, d := range Weekdays {
		if string(d) == s {
			return d, nil
		}
	}
	if d, ok := weekdayAliases[s]; ok {
		return d, nil
	}
	return "", &InvalidEnumValueError{Enum: "dia_semana", Value: s}
}

// Index is the zero-based position from Monday.
func (d Weekday) Index() int {
	for i, w := range Weekdays {
		if w == d {
			return i
		}
	}
	return len(Weekdays)
}

func (d Weekday) String() string { return string(d) }

func (d Weekday) MarshalText() ([]byte, error) { return []byte(d), nil }

func (d *Weekday) UnmarshalText(data []byte) error {
	parsed, err := ParseWeekday(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
