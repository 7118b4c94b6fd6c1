package bankapi

import "fmt"

// APIError is a server rejection: a non-2xx response whose body carried
// a detail field (possibly empty). Transport and decode failures are
// plain wrapped errors, never APIErrors.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
}
