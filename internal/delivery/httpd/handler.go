package httpd

import (
	"net/http"
	"time"

	"github.com/Angel-crypt/backend-we/internal/metrics"
	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/Angel-crypt/backend-we/internal/service"
	"github.com/Angel-crypt/backend-we/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Services groups the application services the handlers call into.
type Services struct {
	Auth         service.AuthService
	Students     service.StudentService
	Teachers     service.TeacherService
	Courses      service.CourseService
	Groups       service.GroupService
	Assignments  service.AssignmentService
	Availability service.AvailabilityService
	Grades       service.GradeService
	LessonPlans  service.LessonPlanService
	Portal       service.PortalService
}

type Handler struct {
	authService         service.AuthService
	studentService      service.StudentService
	teacherService      service.TeacherService
	courseService       service.CourseService
	groupService        service.GroupService
	assignmentService   service.AssignmentService
	availabilityService service.AvailabilityService
	gradeService        service.GradeService
	lessonPlanService   service.LessonPlanService
	portalService       service.PortalService
	cookie              session.CookieOptions
	maxUploadSize       int64
	metrics             *metrics.Metrics
	logger              zerolog.Logger
}

func NewHandler(
	services Services,
	cookie session.CookieOptions,
	maxUploadSize int64,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		authService:         services.Auth,
		studentService:      services.Students,
		teacherService:      services.Teachers,
		courseService:       services.Courses,
		groupService:        services.Groups,
		assignmentService:   services.Assignments,
		availabilityService: services.Availability,
		gradeService:        services.Grades,
		lessonPlanService:   services.LessonPlans,
		portalService:       services.Portal,
		cookie:              cookie,
		maxUploadSize:       maxUploadSize,
		metrics:             m,
		logger:              logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)
	if h.metrics != nil {
		router.Handle("/metrics", h.metrics.Handler())
	}

	router.Route("/admin", func(admin chi.Router) {
		admin.Get("/ping", h.Ping("admin"))
		admin.Post("/login", h.Login(models.RoleAdmin))
		admin.Get("/session", h.Session(models.RoleAdmin))

		admin.Group(func(r chi.Router) {
			r.Use(h.RequireRole(models.RoleAdmin))

			r.Post("/logout", h.Logout)
			r.Get("/parciales", h.ListPartialWindows)

			r.Route("/alumnos", func(r chi.Router) {
				r.Get("/", h.ListStudents)
				r.Post("/", h.CreateStudent)
				r.Get("/nombre/{nombre}", h.SearchStudents)
				r.Get("/grupo/{id_grupo}", h.ListStudentsByGroup)
				r.Get("/{id}", h.GetStudent)
				r.Put("/{id}", h.UpdateStudent)
				r.Delete("/{id}", h.DeleteStudent)
			})

			r.Route("/maestros", func(r chi.Router) {
				r.Get("/", h.ListTeachers)
				r.Post("/", h.CreateTeacher)
				r.Get("/nombre/{nombre}", h.SearchTeachers)
				r.Get("/especialidad/{especialidad}", h.ListTeachersBySpecialty)
				r.Get("/edad/{edad}", h.ListTeachersByAge)
				r.Get("/{id}", h.GetTeacher)
				r.Delete("/{id}", h.DeleteTeacher)
				r.Get("/{id}/cursos", h.TeacherCourses)
				r.Get("/{id}/disponibilidad", h.TeacherAvailability)
			})

			r.Route("/cursos", func(r chi.Router) {
				r.Get("/", h.ListCourses)
				r.Post("/", h.CreateCourse)
				r.Get("/{identificador}", h.GetCourse)
				r.Put("/{id}", h.UpdateCourse)
				r.Delete("/{id}", h.DeleteCourse)
			})

			r.Route("/grupos", func(r chi.Router) {
				r.Get("/", h.ListGroups)
				r.Post("/", h.CreateGroup)
				r.Get("/{identificador}", h.GetGroup)
			})

			r.Route("/asignaciones", func(r chi.Router) {
				r.Get("/", h.ListAssignments)
				r.Post("/", h.CreateAssignment)
				r.Get("/{id}/planeacion", h.GetAssignmentLessonPlan)
				r.Post("/{id}/fechas-parciales", h.CreatePartialWindow)
				r.Get("/{id}/horarios", h.ListSchedule)
				r.Post("/{id}/horarios", h.CreateSchedule)
			})
			r.Delete("/horarios/{id}", h.DeleteSchedule)

			r.Get("/grades/assignments/{id}", h.GradesByAssignment)
			r.Get("/grades/maestro/{id}", h.GradesByTeacher)
			r.Get("/lesson-plans", h.ListLessonPlans)
			r.Get("/lesson-plans/maestro/{id}", h.LessonPlansByTeacher)
		})
	})

	router.Route("/maestro", func(teacher chi.Router) {
		teacher.Get("/ping", h.Ping("maestro"))
		teacher.Post("/login", h.Login(models.RoleTeacher))
		teacher.Get("/session", h.Session(models.RoleTeacher))

		teacher.Group(func(r chi.Router) {
			r.Use(h.RequireRole(models.RoleTeacher))

			r.Post("/logout", h.Logout)
			r.Get("/dashboard", h.Dashboard)

			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)

			r.Get("/availability", h.ListAvailability)
			r.Post("/availability", h.CreateAvailability)
			r.Put("/availability", h.UpdateAvailability)
			r.Delete("/availability", h.DeleteAvailability)
			r.Get("/availability/summary", h.AvailabilitySummary)

			r.Get("/groups", h.TeacherGroups)
			r.Get("/groups/{id}/students", h.GroupStudents)
			r.Get("/groups/{id}/details", h.GroupDetails)

			r.Get("/assignments", h.TeacherAssignments)
			r.Get("/assignments/{id}/students", h.AssignmentStudents)
			r.Get("/assignments/{id}/schedule", h.AssignmentSchedule)

			r.Get("/grades/{asig}/{parcial}", h.GetPartialGrades)
			r.Post("/grades/{asig}/{parcial}", h.UploadGrades)
			r.Get("/grades/{asig}/{parcial}/check", h.CheckGradeWindow)
			r.Get("/grades/{asig}/{alumno}/{parcial}", h.GetStudentGrade)

			r.Post("/planning/{asig}", h.UploadLessonPlan)
			r.Get("/planning/{asig}", h.GetLessonPlan)
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "backend-we",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) Ping(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"msg": name + " service is running"})
	}
}
