package request

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const maxFormMemory = 1 << 20

// FormBinder is implemented by request types that also accept
// form-encoded bodies.
type FormBinder interface {
	BindForm(values url.Values) error
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// DecodeFormOrJSON reads urlencoded and multipart form bodies through
// BindForm and anything else as JSON, then validates the result.
func DecodeFormOrJSON(r *http.Request, v FormBinder) error {
	mediaType := contentType(r)

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("invalid form: %w", err)
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return fmt.Errorf("invalid form: %w", err)
		}
	default:
		return Decode(r, v)
	}

	if err := v.BindForm(r.PostForm); err != nil {
		return fmt.Errorf("invalid form: %w", err)
	}

	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

func contentType(r *http.Request) string {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if err != nil {
		return ""
	}

	return mediaType
}

// RequireID parses a numeric path parameter.
func RequireID(s string) (uint, error) {
	if s == "" {
		return 0, fmt.Errorf("missing required ID")
	}

	id, err := strconv.ParseUint(s, 10, 32)

	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid ID %q", s)
	}

	return uint(id), nil
}

func formBool(values url.Values, key string) (bool, error) {
	raw := strings.TrimSpace(values.Get(key))

	if raw == "" {
		return false, nil
	}

	if raw == "on" {
		return true, nil
	}

	parsed, err := strconv.ParseBool(raw)

	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}

	return parsed, nil
}
