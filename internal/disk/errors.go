package disk

import "fmt"

// APIError is a non-2xx answer from the Disk API.
type APIError struct {
	Op          string `json:"-"`
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("disk %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("disk %s: status %d: %s: %s", e.Op, e.StatusCode, e.Code, e.Description)
}
