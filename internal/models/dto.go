package models

// Data Transfer Objects

type LoginRequest struct {
	UserID   string `json:"id_usuario" validate:"required"`
	Password string `json:"contrasena" validate:"required"`
}

type CreateStudentRequest struct {
	ID              string  `json:"id_alumno" validate:"required,max=20"`
	GroupID         string  `json:"id_grupo" validate:"required"`
	Name            string  `json:"nombre" validate:"required,max=100"`
	PaternalSurname string  `json:"apellido_paterno" validate:"required,max=100"`
	MaternalSurname *string `json:"apellido_materno" validate:"omitempty,max=100"`
	BirthDate       *string `json:"fecha_nacimiento"`
	Sex             *string `json:"sexo"`
}

type UpdateStudentRequest struct {
	GroupID         *string `json:"id_grupo" validate:"omitempty,min=1"`
	Name            *string `json:"nombre" validate:"omitempty,min=1,max=100"`
	PaternalSurname *string `json:"apellido_paterno" validate:"omitempty,min=1,max=100"`
	MaternalSurname *string `json:"apellido_materno" validate:"omitempty,max=100"`
	BirthDate       *string `json:"fecha_nacimiento"`
	Sex             *string `json:"sexo"`
}

type CreateTeacherRequest struct {
	UserID          string  `json:"id_usuario" validate:"required,len=6"`
	Password        string  `json:"contrasena" validate:"required,min=6"`
	Role            string  `json:"role"`
	Name            string  `json:"nombre" validate:"required,max=100"`
	PaternalSurname string  `json:"apellido_paterno" validate:"required,max=100"`
	MaternalSurname *string `json:"apellido_materno" validate:"omitempty,max=100"`
	BirthDate       *string `json:"fecha_nacimiento"`
	Specialty       *string `json:"especialidad" validate:"omitempty,max=100"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"nombre" validate:"omitempty,min=1,max=100"`
	PaternalSurname *string `json:"apellido_paterno" validate:"omitempty,min=1,max=100"`
	MaternalSurname *string `json:"apellido_materno" validate:"omitempty,max=100"`
	BirthDate       *string `json:"fecha_nacimiento"`
	Specialty       *string `json:"especialidad" validate:"omitempty,max=100"`
}

type CreateCourseRequest struct {
	ID          string  `json:"id_curso"`
	Name        string  `json:"nombre"`
	Code        *string `json:"codigo"`
	Description string  `json:"descripcion"`
}

type UpdateCourseRequest struct {
	Name        *string `json:"nombre"`
	Code        *string `json:"codigo"`
	Description *string `json:"descripcion"`
}

type CreateGroupRequest struct {
	ID         string `json:"id_grupo" validate:"required,max=20"`
	Name       string `json:"nombre_grupo" validate:"required,max=100"`
	Generation string `json:"generacion" validate:"required,max=20"`
	Faculty    string `json:"facultad" validate:"required,max=100"`
}

type CreateAssignmentRequest struct {
	CourseID  string `json:"id_curso" validate:"required"`
	GroupID   string `json:"id_grupo" validate:"required"`
	TeacherID string `json:"id_maestro" validate:"required"`
}

type CreatePartialWindowRequest struct {
	Partial int    `json:"numero_parcial" validate:"required,min=1,max=3"`
	Opens   string `json:"fecha_inicio" validate:"required"`
	Closes  string `json:"fecha_fin" validate:"required"`
	Active  *bool  `json:"activo"`
}

type SlotRequest struct {
	Day   string `json:"dia_semana" validate:"required"`
	Start string `json:"hora_inicio" validate:"required"`
	End   string `json:"hora_fin" validate:"required"`
}

type UpdateAvailabilityRequest struct {
	ID    int64  `json:"id_disponibilidad" validate:"required"`
	Day   string `json:"dia_semana" validate:"required"`
	Start string `json:"hora_inicio" validate:"required"`
	End   string `json:"hora_fin" validate:"required"`
}

type DeleteAvailabilityRequest struct {
	ID int64 `json:"id_disponibilidad" validate:"required"`
}

type GradeEntry struct {
	StudentID string   `json:"id_alumno" validate:"required"`
	Score     *float64 `json:"calificacion" validate:"required,min=0,max=100"`
}

// UploadCheck is the outcome of a grade-window lookup.
type UploadCheck struct {
	Allowed bool   `json:"can_upload"`
	Message string `json:"message"`
}
