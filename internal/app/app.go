package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Angel-crypt/backend-we/internal/config"
	"github.com/Angel-crypt/backend-we/internal/delivery/httpd"
	"github.com/Angel-crypt/backend-we/internal/metrics"
	"github.com/Angel-crypt/backend-we/internal/repository"
	"github.com/Angel-crypt/backend-we/internal/server"
	"github.com/Angel-crypt/backend-we/internal/service"
	"github.com/Angel-crypt/backend-we/internal/service/integration"
	"github.com/Angel-crypt/backend-we/internal/session"
	"github.com/Angel-crypt/backend-we/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	urlCheckTimeout = 10 * time.Second
	requestTimeout  = 60 * time.Second
)

type App struct {
	server    *server.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	redis     *redis.Client
	publisher integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	loc, err := cfg.Grades.Location()
	if err != nil {
		return nil, err
	}

	m := metrics.New(prometheus.NewRegistry())

	publisher := m.InstrumentPublisher(connectPublisher(cfg.RabbitMQ, log))

	sessions, redisClient, err := newSessionStore(cfg, log)
	if err != nil {
		closePublisher(publisher, log)
		return nil, err
	}

	objects, err := newObjectStorage(cfg, log)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		closePublisher(publisher, log)
		return nil, err
	}

	// Repositories
	userRepo := repository.NewUserRepository(db, log)
	studentRepo := repository.NewStudentRepository(db, log)
	teacherRepo := repository.NewTeacherRepository(db, log)
	courseRepo := repository.NewCourseRepository(db, log)
	groupRepo := repository.NewGroupRepository(db, log)
	assignmentRepo := repository.NewAssignmentRepository(db, log)
	gradeRepo := repository.NewGradeRepository(db, log)
	windowRepo := repository.NewPartialWindowRepository(db, log)
	scheduleRepo := repository.NewScheduleRepository(db, log)
	availabilityRepo := repository.NewAvailabilityRepository(db, log)

	// Services
	windows := service.NewGradeWindowValidator(windowRepo, log,
		service.WithRequireActive(cfg.Grades.RequireActiveWindow),
		service.WithLocation(loc),
	)
	urlChecker := integration.NewURLChecker(urlCheckTimeout, log)

	services := httpd.Services{
		Auth:     service.NewAuthService(userRepo, teacherRepo, sessions, log),
		Students: service.NewStudentService(studentRepo, groupRepo, log),
		Teachers: service.NewTeacherService(teacherRepo, userRepo, assignmentRepo, publisher, log),
		Courses:  service.NewCourseService(courseRepo, log),
		Groups:   service.NewGroupService(groupRepo, log),
		Assignments: service.NewAssignmentService(
			assignmentRepo, courseRepo, groupRepo, teacherRepo,
			windowRepo, scheduleRepo, urlChecker, publisher, loc, log,
		),
		Availability: service.NewAvailabilityService(availabilityRepo, teacherRepo, log),
		Grades: service.NewGradeService(
			gradeRepo, assignmentRepo, teacherRepo, studentRepo, windows, publisher, log,
		),
		LessonPlans: service.NewLessonPlanService(
			assignmentRepo, teacherRepo, objects, publisher,
			service.LessonPlanConfig{
				MaxUploadSize: cfg.Server.MaxUploadSize,
				Prefix:        cfg.Storage.PlanPrefix,
			},
			log,
		),
		Portal: service.NewPortalService(
			teacherRepo, assignmentRepo, studentRepo, scheduleRepo, availabilityRepo, log,
		),
	}

	handler := httpd.NewHandler(
		services,
		session.CookieOptions{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
			TTL:    cfg.Session.TTL,
		},
		cfg.Server.MaxUploadSize,
		m,
		log,
	)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	srv := server.New(server.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, router, log)

	srv.SetupMiddleware(
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			ExposedHeaders:   cfg.CORS.ExposedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}),
		middleware.Timeout(requestTimeout),
		m.Middleware,
		httpd.RequestLogger(log),
		httpd.Recovery(log),
	)

	return &App{
		server:    srv,
		logger:    log,
		config:    cfg,
		db:        db,
		redis:     redisClient,
		publisher: publisher,
	}, nil
}

// connectPublisher falls back to dropping events when no broker is
// configured or reachable. Tests replace it.
var connectPublisher = func(cfg config.RabbitMQConfig, log zerolog.Logger) integration.EventPublisher {
	if !cfg.Enabled {
		return integration.NewNoopPublisher(log)
	}
	rabbit, err := integration.NewRabbitMQPublisher(cfg.URL, cfg.Exchange, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to RabbitMQ, events will be dropped")
		return integration.NewNoopPublisher(log)
	}
	return rabbit
}

func closePublisher(publisher integration.EventPublisher, log zerolog.Logger) {
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close event publisher")
	}
}

func newSessionStore(cfg *config.Config, log zerolog.Logger) (session.Store, *redis.Client, error) {
	switch cfg.Session.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info().Str("address", cfg.Redis.Address).Msg("Connected to Redis")
		return session.NewRedisStore(client, cfg.Session.TTL), client, nil
	case "jwt":
		return session.NewJWTStore(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session backend %q", cfg.Session.Backend)
	}
}

func newObjectStorage(cfg *config.Config, log zerolog.Logger) (storage.ObjectStorage, error) {
	switch cfg.Storage.Provider {
	case "minio":
		return storage.NewMinIOStorage(cfg.MinIO, cfg.Storage, log)
	case "b2":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return storage.NewB2Storage(ctx, cfg.B2, cfg.Storage.BucketName, log)
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Storage.Provider)
	}
}

func (a *App) Run() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)

	closePublisher(a.publisher, a.logger)
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close redis client")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return err
}
