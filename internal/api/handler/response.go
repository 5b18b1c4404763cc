package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/userdesk/accounts-api/internal/core/domain"
)

const (
	msgValidationFailed = "Validation failed"
	msgInvalidPayload   = "Invalid JSON payload."
	msgInternalError    = "internal error"
)

// envelope is the response shape shared by the account endpoints.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	User    *userResponse       `json:"user,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func validationFailed(c echo.Context, ve *domain.ValidationError) error {
	return c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Message: msgValidationFailed,
		Errors:  ve.Fields,
	})
}

// decodeObject reads the request body as a single JSON object into dst and
// returns the sorted keys present. A body that is not an object, or a member
// whose type does not match dst, is reported as a ValidationError.
func decodeObject(c echo.Context, dst any) ([]string, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(body), &raw); err != nil || raw == nil {
		return nil, domain.FieldError(domain.NonFieldErrors, msgInvalidPayload)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := json.Unmarshal(body, dst); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) && ute.Field != "" {
			return keys, domain.FieldError(ute.Field, typeMessage(ute.Type.Kind().String()))
		}
		return keys, domain.FieldError(domain.NonFieldErrors, msgInvalidPayload)
	}
	return keys, nil
}

func typeMessage(kind string) string {
	switch kind {
	case "bool":
		return "Must be a valid boolean."
	case "string":
		return "Not a valid string."
	default:
		return "Invalid value."
	}
}
