package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/templui/objectives/internal/config"
	"github.com/templui/objectives/internal/db"
	"github.com/templui/objectives/internal/markdown"
	"github.com/templui/objectives/internal/repository"
	"github.com/templui/objectives/internal/service"
	"github.com/templui/objectives/internal/service/generation"
	"github.com/templui/objectives/internal/storage"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	Generator        generation.Provider
	AuthService      *service.AuthService
	UserService      *service.UserService
	ProfileService   *service.ProfileService
	EmailService     *service.EmailService
	AdminService     *service.AdminService
	RateService      *service.RateService
	LedgerService    *service.LedgerService
	MilestoneService *service.MilestoneService
	GoalService      *service.GoalService
	DocumentService  *service.DocumentService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.DBAutoMigrate {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	entryRepository := repository.NewLedgerEntryRepository(database)
	milestoneRepository := repository.NewMilestoneRepository(database)
	rateRepository := repository.NewExchangeRateRepository(database)
	documentRepository := repository.NewDocumentRepository(database)

	// Storage is optional; without a bucket the document checklist still works
	var documentStorage storage.Storage
	s3Storage, err := storage.New(ctx, cfg)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		slog.Warn("S3_BUCKET not set, document uploads disabled")
	case err != nil:
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	default:
		documentStorage = s3Storage
	}

	generator, err := generation.NewProvider(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize generation provider: %w", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(userRepository, cfg.JWTSecret, cfg.IsProduction(), cfg.JWTExpiry)
	userService := service.NewUserService(userRepository, profileRepository, emailService)
	profileService := service.NewProfileService(profileRepository, goalRepository)
	rateService := service.NewRateService(rateRepository, nil, cfg.RatesSourceURL)
	ledgerService := service.NewLedgerService(goalRepository, entryRepository, rateService)
	milestoneService := service.NewMilestoneService(goalRepository, milestoneRepository)
	goalService := service.NewGoalService(
		goalRepository,
		entryRepository,
		milestoneRepository,
		profileRepository,
		rateService,
		milestoneService,
		generator,
		markdown.NewParser(),
	)
	documentService := service.NewDocumentService(documentRepository, goalRepository, documentStorage)
	adminService := service.NewAdminService(
		userRepository,
		profileRepository,
		goalRepository,
		authService,
		emailService,
		documentService,
	)

	return &App{
		Cfg:              cfg,
		DB:               database,
		Generator:        generator,
		AuthService:      authService,
		UserService:      userService,
		ProfileService:   profileService,
		EmailService:     emailService,
		AdminService:     adminService,
		RateService:      rateService,
		LedgerService:    ledgerService,
		MilestoneService: milestoneService,
		GoalService:      goalService,
		DocumentService:  documentService,
	}, nil
}

// Start launches background work that lives until ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	a.RateService.Start(ctx, a.Cfg.RatesRefreshInterval)
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
