package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/school/internal/app/controllers"
	appMigrations "github.com/yigit/school/internal/app/migrations"
	appRepos "github.com/yigit/school/internal/app/repositories"
	appRoutes "github.com/yigit/school/internal/app/routes"
	appServices "github.com/yigit/school/internal/app/services"
	"github.com/yigit/school/internal/config"
	"github.com/yigit/school/internal/db"
	appMiddleware "github.com/yigit/school/internal/middleware"
	"github.com/yigit/school/internal/pkg/filestorage"
	"github.com/yigit/school/internal/pkg/logger"
	"github.com/yigit/school/internal/pkg/validation"
	"github.com/yigit/school/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	// Database is nil when the in-memory store is configured
	Database    *db.PostgresDB
	Repos       *appRepos.Repositories
	Services    *appServices.Services
	FileStorage *filestorage.LocalStorage
	Logger      zerolog.Logger

	FacultyController *appControllers.FacultyController
	StudentController *appControllers.StudentController
	AvatarController  *appControllers.AvatarController
	InfoController    *appControllers.InfoController

	// PrintOut receives the output of the student print endpoints, os.Stdout when nil
	PrintOut io.Writer
}

// DefaultConfigPath is used unless CONFIG_PATH points elsewhere
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", DefaultConfigPath)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations. It returns nil when the
// in-memory store is configured.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	if cfg.UsesMemoryStore() {
		lgr.Warn().Msg("Using in-memory store, data is lost on restart")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
// database may be nil when the in-memory store is configured.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger, printOut io.Writer) (*Dependencies, error) {
	deps := &Dependencies{Database: database, Logger: lgr, PrintOut: printOut}

	if database != nil {
		deps.Repos = appRepos.NewRepositories(database)
	} else {
		deps.Repos = appRepos.NewMemoryRepositories()
	}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.AvatarsDir)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	if cfg.Seed.Enabled {
		if _, err := seed.CreateDefaultData(ctx, deps.Repos.FacultyRepository, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	deps.Services = appServices.NewServices(deps.Repos, deps.FileStorage, cfg.Server.Port, deps.PrintOut)

	deps.FacultyController = appControllers.NewFacultyController(deps.Services.FacultyService)
	deps.StudentController = appControllers.NewStudentController(deps.Services.StudentService)
	deps.AvatarController = appControllers.NewAvatarController(deps.Services.AvatarService, cfg.Storage.MaxUploadSize)
	deps.InfoController = appControllers.NewInfoController(deps.Services.InfoService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production", "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	validation.Register()

	router := gin.New()
	router.MaxMultipartMemory = cfg.Storage.MaxUploadSize
	router.Use(appMiddleware.Recovery(), appMiddleware.RequestLogger())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.FacultyController,
		deps.StudentController,
		deps.AvatarController,
		deps.InfoController,
	)

	router.GET("/ping", pingHandler(deps.Database))

	return router
}

// pingHandler reports liveness together with the state of the configured store
func pingHandler(database *db.PostgresDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if database == nil {
			c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success", "store": config.DriverMemory})
			return
		}
		if err := database.Ping(c.Request.Context()); err != nil {
			logger.Error().Err(err).Msg("Database ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable", "status": "error", "store": config.DriverPostgres})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success", "store": config.DriverPostgres})
	}
}
