package strategies

import (
	"net/http"
	"strings"
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
// It reports false when the header is absent or not a bearer scheme, so the
// caller can yield NoResult instead of Failure.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
