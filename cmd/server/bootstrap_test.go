package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charlesng35/weddingrsvp/internal/app"
	"github.com/charlesng35/weddingrsvp/internal/database"
	"github.com/charlesng35/weddingrsvp/internal/models"
)

func TestConvertDatabaseConfig(t *testing.T) {
	cfg := &app.Config{}
	cfg.Database.Path = " ./data/test.sqlite "
	require.Equal(t, database.Config{Driver: "sqlite", Path: "./data/test.sqlite"}, convertDatabaseConfig(cfg))

	cfg.Database.Driver = "PostgreSQL"
	cfg.Database.Postgres = app.DBAuthConfig{Host: "db", Port: 5432, Database: "rsvp", Username: "rsvp", Password: " secret "}
	dbCfg := convertDatabaseConfig(cfg)
	require.Equal(t, "postgres", dbCfg.Driver)
	require.Equal(t, "db", dbCfg.Host)
	require.Equal(t, 5432, dbCfg.Port)
	require.Equal(t, "rsvp", dbCfg.Name)
	require.Equal(t, " secret ", dbCfg.Password, "passwords are passed through untouched")

	cfg.Database.Driver = "oracle"
	require.Equal(t, "oracle", convertDatabaseConfig(cfg).Driver)
}

func TestResolveSecretsPersistsGeneratedSecret(t *testing.T) {
	db, err := database.Open(database.Config{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() { closeDatabase(db, zap.NewNop()) })
	require.NoError(t, db.AutoMigrate(&models.SystemSetting{}))

	ctx := context.Background()
	generated := map[string]bool{jwtSecretKey: true}

	first := &app.Config{}
	first.Auth.JWT.Secret = "first-generated-secret"
	require.NoError(t, resolveSecrets(ctx, db, first, generated, zap.NewNop()))
	require.Equal(t, "first-generated-secret", first.Auth.JWT.Secret)

	second := &app.Config{}
	second.Auth.JWT.Secret = "second-generated-secret"
	require.NoError(t, resolveSecrets(ctx, db, second, generated, zap.NewNop()))
	require.Equal(t, "first-generated-secret", second.Auth.JWT.Secret, "restarts reuse the stored secret")

	configured := &app.Config{}
	configured.Auth.JWT.Secret = "from-config"
	require.NoError(t, resolveSecrets(ctx, db, configured, map[string]bool{}, zap.NewNop()))
	require.Equal(t, "from-config", configured.Auth.JWT.Secret)
}

func TestBootstrapRuntime(t *testing.T) {
	cfg, err := app.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.Database.Path = filepath.Join(t.TempDir(), "weddingrsvp.sqlite")

	generated, err := app.ApplyRuntimeDefaults(cfg)
	require.NoError(t, err)

	stack, err := bootstrapRuntime(context.Background(), cfg, generated, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { stack.Shutdown(context.Background(), zap.NewNop()) })

	w := httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"component":"database"`)

	stored, err := database.GetSystemSetting(context.Background(), stack.DB, database.JWTSecretSetting)
	require.NoError(t, err)
	require.Equal(t, cfg.Auth.JWT.Secret, stored)
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
	require.NoError(t, loadEnvFile(""))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("WEDDINGRSVP_TEST_ENV_FILE=loaded\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("WEDDINGRSVP_TEST_ENV_FILE") })

	require.NoError(t, loadEnvFile(path))
	require.Equal(t, "loaded", os.Getenv("WEDDINGRSVP_TEST_ENV_FILE"))
}

func TestLoadApplicationConfigMissingPath(t *testing.T) {
	_, err := loadApplicationConfig(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
