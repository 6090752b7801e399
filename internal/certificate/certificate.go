// Package certificate derives and verifies certificate identities from
// completed exam attempts. Certificates are never stored: the number is a
// deterministic encoding of the attempt id and the grade is a step function
// of the score, so any completed attempt can regenerate its certificate on
// demand.
package certificate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// Prefix is the constant certificate number prefix.
	Prefix = "ET-"
	// idDigits is the fixed width of the zero-padded attempt id.
	idDigits = 8
)

// ErrInvalidFormat is returned by Decode for malformed certificate numbers.
// It is distinct from "not found": a well-formed number whose attempt does
// not exist is the caller's lookup failure, not a format error.
var ErrInvalidFormat = errors.New("invalid certificate number format")

// Certificate is the derived, presentable certificate payload.
type Certificate struct {
	Number     string    `json:"certificate_number"`
	Grade      string    `json:"grade"`
	Score      int       `json:"score"`
	AttemptID  int64     `json:"attempt_id"`
	HolderName string    `json:"holder_name,omitempty"`
	ExamTitle  string    `json:"exam_title,omitempty"`
	IssuedAt   time.Time `json:"issued_at"`
}

// Encode derives the certificate number for an attempt id:
// the constant prefix plus the 8-digit zero-padded decimal id.
func Encode(attemptID int64) string {
	return fmt.Sprintf("%s%0*d", Prefix, idDigits, attemptID)
}

// Decode recovers the attempt id from a certificate number. The number must
// be the prefix followed by exactly 8 decimal digits; anything else is
// ErrInvalidFormat. Decode(Encode(n)) == n for all n in [0, 99999999].
func Decode(number string) (int64, error) {
	rest, ok := strings.CutPrefix(number, Prefix)
	if !ok || len(rest) != idDigits {
		return 0, ErrInvalidFormat
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, ErrInvalidFormat
		}
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, ErrInvalidFormat
	}
	return id, nil
}

// GradeFor maps a score percentage onto a letter grade. The thresholds form
// a monotonic staircase; the exact cut points are a product decision.
func GradeFor(score int) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "B+"
	case score >= 80:
		return "B"
	case score >= 75:
		return "C+"
	case score >= 70:
		return "C"
	case score >= 65:
		return "D+"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
