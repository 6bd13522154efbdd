package orders

import (
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusBatal   Status = "batal" // dibatalkan
)

var known = map[Status]bool{
	StatusPending: true,
	StatusDone:    true,
	StatusBatal:   true,
}

func (s Status) Valid() bool { return known[s] }

// ParseStatus accepts only the enumerated values.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", apperr.Invalid("status", "harus salah satu dari pending, done, batal")
	}
	return s, nil
}
