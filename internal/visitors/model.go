package visitors

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidName = errors.New("visitor name is required")

// Visit is one row in the front-desk visitor log. The log is append-only;
// rows are never updated or deleted.
type Visit struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Purpose   string    `json:"purpose"`
	Company   string    `json:"company,omitempty"`
	PhotoPath string    `json:"photo_path,omitempty"`
	CheckedIn time.Time `json:"checked_in"`
}

// CheckInRequest is the request body for registering a visitor.
type CheckInRequest struct {
	Name      string `json:"name"`
	Purpose   string `json:"purpose"`
	Company   string `json:"company"`
	PhotoPath string `json:"photo_path"`
}

// Validate normalizes and validates the check-in request.
func (r *CheckInRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Purpose = strings.TrimSpace(r.Purpose)
	r.Company = strings.TrimSpace(r.Company)
	if r.Name == "" {
		return ErrInvalidName
	}
	return nil
}
