package main

import (
	"context"
	"os/signal"
	"syscall"

	"notekeeper/internal/config"
	"notekeeper/internal/domain/entity"
	"notekeeper/internal/domain/policy"
	"notekeeper/internal/domain/sqlite"
	"notekeeper/internal/domain/sqlite/repository"
	handler2 "notekeeper/internal/http/handler"
	authmw "notekeeper/internal/http/middleware"
	"notekeeper/internal/infrastructure/aws/storage"
	"notekeeper/internal/service"
	"notekeeper/internal/service/jobs"
	"notekeeper/internal/utils"
	"notekeeper/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	validate := validator.New()
	registerValidators(validate)

	// Loads env vars depending on environment
	if err := config.Load(); err != nil {
		panic(err)
	}

	// Init SQLite
	db, err := sqlite.Init()
	if err != nil {
		panic(err)
	}

	// Init S3 client
	s3Client, err := storage.NewStorageClient()
	if err != nil {
		panic(err)
	}

	tokens, err := utils.NewTokenIssuer(config.TokenSecret(), config.TokenTTL())
	if err != nil {
		panic(err)
	}

	// Getting repos
	noteRepo := repository.NewNoteRepository(db)
	userRepo := repository.NewUserRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Getting services
	notePolicy := policy.NewNotePolicy()
	userService := service.NewUserService(userRepo, tokens, validate)
	noteService := service.NewNoteService(noteRepo, attachmentRepo, notePolicy, s3Client, validate)

	// Getting handlers
	noteRoutes := handler2.NewNoteDefault(noteService)
	userRoutes := handler2.NewUserDefault(userService)

	authGate := authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{
		UserRepo: userRepo,
		Tokens:   tokens,
	})
	adminGate := authmw.RequireRoles(entity.RoleAdmin)

	// Background purge of long-deleted notes
	jobCtx, stopJobs := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopJobs()

	purger := jobs.NewTrashPurger(noteRepo, s3Client, config.TrashRetention())
	go purger.Start(jobCtx)

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("6M"))

	// Auth
	e.POST("/api/register", userRoutes.Register)
	e.POST("/api/login", userRoutes.Login)
	e.GET("/api/profile", userRoutes.Profile, authGate)

	// Notes
	e.GET("/api/notes", noteRoutes.GetNotes, authGate)
	e.GET("/api/notes/search", noteRoutes.SearchNotes, authGate)
	e.GET("/api/notes/:id", noteRoutes.GetNote, authGate)
	e.POST("/api/notes", noteRoutes.CreateNote, authGate)
	e.PUT("/api/notes/:id", noteRoutes.UpdateNote, authGate)
	e.PATCH("/api/notes/:id/status", noteRoutes.UpdateNoteStatus, authGate)
	e.DELETE("/api/notes/:id", noteRoutes.DeleteNote, authGate)
	e.DELETE("/api/notes", noteRoutes.DeleteAllNotes, authGate, adminGate)
	e.POST("/api/notes/:id/upload", noteRoutes.UploadAttachment, authGate)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	if err := e.Start(config.Port()); err != nil {
		panic(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("nodupes", validators.NoDupes)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
