package app

import (
	"strings"

	"github.com/charlesng35/weddingrsvp/pkg/logger"
)

// ConfigureLogging initialises the global logger, defaulting to info level and JSON output.
func ConfigureLogging(level, format string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	return logger.InitWithFormat(level, strings.TrimSpace(format))
}
