package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/models"
)

func normaliseIDs(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// optionalString trims value and maps blank input to nil.
func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// weddingForUser loads the wedding owned by userID.
func weddingForUser(ctx context.Context, db *gorm.DB, userID string) (*models.Wedding, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrWeddingRequired
	}

	var wedding models.Wedding
	err := db.WithContext(ctx).Where("user_id = ?", userID).Take(&wedding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeddingRequired
		}
		return nil, fmt.Errorf("load wedding: %w", err)
	}
	return &wedding, nil
}

// absoluteURL joins a request origin and a path, dropping any trailing slash on the origin.
func absoluteURL(origin, path string) string {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return path
	}
	return origin + path
}
