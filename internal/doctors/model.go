package doctors

import "errors"

// Doctor is read-mostly reference data seeded by admin tooling.
type Doctor struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// ErrDoctorNotFound is returned when a doctor lookup misses.
var ErrDoctorNotFound = errors.New("doctors: doctor not found")
