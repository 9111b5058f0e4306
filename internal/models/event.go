package models

const (
	EventTeacherCreated      = "teacher.created"
	EventGradesUploaded      = "grades.uploaded"
	EventLessonPlanUploaded  = "lesson_plan.uploaded"
	EventPartialWindowOpened = "partial_window.created"
)

type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`
}

type TeacherCreatedEvent struct {
	TeacherID string `json:"id_maestro"`
	FullName  string `json:"nombre_completo"`
}

type GradesUploadedEvent struct {
	AssignmentID int64    `json:"id_asignacion"`
	Partial      int      `json:"numero_parcial"`
	TeacherID    string   `json:"id_maestro"`
	StudentIDs   []string `json:"alumnos"`
}

type LessonPlanUploadedEvent struct {
	AssignmentID int64  `json:"id_asignacion"`
	TeacherID    string `json:"id_maestro"`
	URL          string `json:"planeacion_pdf_url"`
	Size         int    `json:"tamano_bytes"`
	Checksum     string `json:"sha256"`
}

type PartialWindowCreatedEvent struct {
	AssignmentID int64  `json:"id_asignacion"`
	Partial      int    `json:"numero_parcial"`
	Opens        string `json:"fecha_inicio"`
	Closes       string `json:"fecha_fin"`
}
