package validators

import (
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/jihowes/free-trial-snetinal-sub000/pkg/errors"
)

const dateLayout = "2006-01-02"

// ParseQueryBool interprets common boolean query values. Absent means false.
func ParseQueryBool(r *http.Request, key string) bool {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return raw == "1" || raw == "true" || raw == "yes"
}

// ParseDate parses a YYYY-MM-DD value.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted YYYY-MM-DD").
			WithDetails(map[string]any{"value": value})
	}
	return parsed, nil
}
