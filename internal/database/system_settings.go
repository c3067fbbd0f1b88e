package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/models"
)

// JWTSecretSetting stores a generated signing secret so issued tokens survive restarts.
const JWTSecretSetting = "auth.jwt.secret"

// GetSystemSetting retrieves a system setting by key. Returns an empty string when not found.
func GetSystemSetting(ctx context.Context, db *gorm.DB, key string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("system settings: db is nil")
	}

	var setting models.SystemSetting
	err := db.WithContext(ctx).Where(&models.SystemSetting{Key: key}).Take(&setting).Error
	if err == nil {
		return setting.Value, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return "", fmt.Errorf("system settings: get %q: %w", key, err)
}

// UpsertSystemSetting stores or updates a system setting value.
func UpsertSystemSetting(ctx context.Context, db *gorm.DB, key, value string) error {
	if db == nil {
		return fmt.Errorf("system settings: db is nil")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("system settings: key is required")
	}

	record := models.SystemSetting{Key: key, Value: value}
	if err := db.WithContext(ctx).
		Where(&models.SystemSetting{Key: key}).
		Assign(map[string]any{"value": value}).
		FirstOrCreate(&record).Error; err != nil {
		return fmt.Errorf("system settings: upsert %q: %w", key, err)
	}

	return nil
}

// ResolveJWTSecret returns the persisted signing secret when one exists. Otherwise it
// stores generated and returns it. Secrets supplied by configuration bypass this.
func ResolveJWTSecret(ctx context.Context, db *gorm.DB, generated string) (string, error) {
	stored, err := GetSystemSetting(ctx, db, JWTSecretSetting)
	if err != nil {
		return "", err
	}
	if stored != "" {
		return stored, nil
	}
	if strings.TrimSpace(generated) == "" {
		return "", fmt.Errorf("system settings: generated secret is empty")
	}
	if err := UpsertSystemSetting(ctx, db, JWTSecretSetting, generated); err != nil {
		return "", err
	}
	return generated, nil
}
