package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/weddingrsvp/pkg/errors"
	"github.com/charlesng35/weddingrsvp/pkg/response"
	appValidator "github.com/charlesng35/weddingrsvp/pkg/validator"
)

type normalizer interface {
	Normalize()
}

// bindAndValidate binds the JSON payload into dest, normalises it when the form supports it
// and runs struct validation rules. When either step fails, an error response is written and
// false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}

	if n, ok := any(dest).(normalizer); ok {
		n.Normalize()
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(formatValidationError(err)))
		return false
	}

	return true
}

func formatValidationError(err error) string {
	if err == nil {
		return "invalid request payload"
	}

	if ve, ok := err.(appValidator.ValidationErrors); ok {
		if len(ve) == 0 {
			return "invalid request payload"
		}

		messages := make([]string, 0, len(ve))
		for _, failure := range ve {
			field := prettifyFieldName(failure.Field)
			switch failure.Tag {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", field))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
			case "min":
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, failure.Param))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, failure.Param))
			case "eqfield":
				messages = append(messages, "Passwords do not match")
			case "datetime":
				messages = append(messages, fmt.Sprintf("%s must match the format %s", field, datetimeHint(failure.Param)))
			case "hexcolor":
				messages = append(messages, fmt.Sprintf("%s must be a hex colour such as #8B4513", field))
			case "mealchoice":
				messages = append(messages, fmt.Sprintf("%s must be one of beef, chicken, fish, vegetarian, vegan", field))
			case "fontchoice":
				messages = append(messages, fmt.Sprintf("%s is not an available font", field))
			default:
				if failure.Param != "" {
					messages = append(messages, fmt.Sprintf("%s failed validation: %s=%s", field, failure.Tag, failure.Param))
				} else {
					messages = append(messages, fmt.Sprintf("%s failed validation: %s", field, failure.Tag))
				}
			}
		}
		return strings.Join(messages, "; ")
	}

	return "invalid request payload"
}

func datetimeHint(layout string) string {
	switch layout {
	case "2006-01-02":
		return "YYYY-MM-DD"
	case "15:04":
		return "HH:MM"
	default:
		return layout
	}
}

func prettifyFieldName(name string) string {
	if name == "" {
		return "field"
	}
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ToLower(name)
}
