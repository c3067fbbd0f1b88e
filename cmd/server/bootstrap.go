package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/api"
	"github.com/charlesng35/weddingrsvp/internal/app"
	"github.com/charlesng35/weddingrsvp/internal/app/maintenance"
	iauth "github.com/charlesng35/weddingrsvp/internal/auth"
	"github.com/charlesng35/weddingrsvp/internal/cache"
	"github.com/charlesng35/weddingrsvp/internal/database"
	"github.com/charlesng35/weddingrsvp/internal/monitoring"
	"github.com/charlesng35/weddingrsvp/internal/monitoring/checks"
	"github.com/charlesng35/weddingrsvp/pkg/logger"
	"github.com/charlesng35/weddingrsvp/pkg/mail"
)

const jwtSecretKey = "auth.jwt.secret"

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB      *gorm.DB
	Redis   *cache.RedisStore
	Cleaner *maintenance.Cleaner
	Health  *monitoring.HealthManager
	Router  *gin.Engine
}

// bootstrapRuntime initialises the database, cache, services and the HTTP router.
// Expired sessions, reset tokens and cache rows are purged once before serving.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, generated map[string]bool, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if err := resolveSecrets(ctx, stack.DB, cfg, generated, log); err != nil {
		return nil, err
	}

	dbStore := cache.NewDatabaseStore(stack.DB)
	var sessionStore cache.Store = dbStore

	if cfg.Cache.Redis.Enabled {
		if stack.Redis, err = cache.NewRedisStore(ctx, cfg.Cache.RedisClientConfig()); err != nil {
			log.Warn("redis unavailable; falling back to database cache", zap.Error(err))
			stack.Redis = nil
		} else {
			sessionStore = stack.Redis
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	sessionCfg := cfg.Auth.SessionServiceConfig()
	sessionCfg.Cache = iauth.NewSessionCache(sessionStore)

	sessionSvc, err := iauth.NewSessionService(stack.DB, jwtSvc, sessionCfg)
	if err != nil {
		return nil, fmt.Errorf("initialise session service: %w", err)
	}

	mailer, err := newMailer(cfg, log)
	if err != nil {
		return nil, err
	}

	identitySvc, err := iauth.NewIdentityService(stack.DB, sessionSvc, mailer, iauth.WithResetTTL(cfg.Auth.PasswordResetTTL()))
	if err != nil {
		return nil, fmt.Errorf("initialise identity service: %w", err)
	}

	stack.Cleaner = maintenance.NewCleaner(sessionSvc, identitySvc, maintenance.WithCachePurger(dbStore))
	if err := stack.Cleaner.RunOnce(ctx); err != nil {
		log.Warn("maintenance start-up cleanup failed", zap.Error(err))
	}

	stack.Health = monitoring.NewHealthManager()
	stack.Health.RegisterReadiness(checks.Database(stack.DB, 0))
	if stack.Redis != nil {
		stack.Health.RegisterReadiness(checks.Redis(stack.Redis, 0))
	} else {
		stack.Health.RegisterReadiness(checks.Redis(nil, 0))
	}
	stack.Health.RegisterReadiness(checks.Maintenance())

	stack.Router, err = api.NewRouter(stack.DB, cfg, jwtSvc, sessionSvc, identitySvc, stack.Health)
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown runs a final maintenance pass and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		if err := s.Cleaner.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
		s.Cleaner = nil
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Warn("redis shutdown", zap.Error(err))
		}
		s.Redis = nil
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
		s.DB = nil
	}
}

// resolveSecrets swaps a freshly generated JWT secret for the persisted one so
// sessions survive restarts when no secret is configured.
func resolveSecrets(ctx context.Context, db *gorm.DB, cfg *app.Config, generated map[string]bool, log *zap.Logger) error {
	if !generated[jwtSecretKey] {
		return nil
	}
	secret, err := database.ResolveJWTSecret(ctx, db, cfg.Auth.JWT.Secret)
	if err != nil {
		return fmt.Errorf("resolve jwt secret: %w", err)
	}
	cfg.Auth.JWT.Secret = secret
	log.Info("using persisted runtime secret", zap.String("key", jwtSecretKey))
	return nil
}

func newMailer(cfg *app.Config, log *zap.Logger) (mail.Mailer, error) {
	if !cfg.Email.SMTP.Enabled {
		log.Info("smtp disabled; outgoing mail is logged")
		return mail.LogMailer{Logger: logger.WithModule("mail")}, nil
	}
	mailer, err := mail.NewSMTPMailer(cfg.Email.SMTPSettings())
	if err != nil {
		return nil, fmt.Errorf("initialise smtp mailer: %w", err)
	}
	return mailer, nil
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := convertDatabaseConfig(cfg)
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", dbCfg.Driver))

	return db, nil
}

func convertDatabaseConfig(cfg *app.Config) database.Config {
	dbCfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(cfg.Database.Driver)),
		Path:   strings.TrimSpace(cfg.Database.Path),
		DSN:    strings.TrimSpace(cfg.Database.DSN),
	}

	var auth app.DBAuthConfig
	switch dbCfg.Driver {
	case "", "sqlite":
		dbCfg.Driver = "sqlite"
		return dbCfg
	case "postgres", "postgresql":
		dbCfg.Driver = "postgres"
		auth = cfg.Database.Postgres
	case "mysql":
		auth = cfg.Database.MySQL
	default:
		// Unsupported drivers surface from database.Open.
		return dbCfg
	}

	dbCfg.Host = strings.TrimSpace(auth.Host)
	dbCfg.Port = auth.Port
	dbCfg.Name = strings.TrimSpace(auth.Database)
	dbCfg.User = strings.TrimSpace(auth.Username)
	dbCfg.Password = auth.Password
	return dbCfg
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
