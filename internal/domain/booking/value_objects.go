package booking

import (
	"crypto/rand"
	"errors"
	"time"
)

const MinDuration = 30 * time.Minute

var (
	ErrInvalidDatetime = errors.New("invalid datetime")
	ErrEndBeforeStart  = errors.New("end must be after start")
	ErrTooShort        = errors.New("booking shorter than minimum duration")
)

// TimeRange is the half-open interval [start, end) a booking occupies.
type TimeRange struct {
	start time.Time
	end   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() {
		return TimeRange{}, ErrInvalidDatetime
	}
	if !end.After(start) {
		return TimeRange{}, ErrEndBeforeStart
	}
	if end.Sub(start) < MinDuration {
		return TimeRange{}, ErrTooShort
	}
	return TimeRange{start: start, end: end}, nil
}

// ReconstructTimeRange rebuilds a range from storage without re-validating;
// persisted rows may predate current validation rules.
func ReconstructTimeRange(start, end time.Time) TimeRange {
	return TimeRange{start: start, end: end}
}

func (r TimeRange) Start() time.Time {
	return r.start
}

func (r TimeRange) End() time.Time {
	return r.end
}

func (r TimeRange) Duration() time.Duration {
	return r.end.Sub(r.start)
}

func (r TimeRange) Hours() float64 {
	return r.Duration().Hours()
}

// Overlaps reports whether two half-open ranges intersect.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return !(r.end.Before(other.start) || r.end.Equal(other.start) ||
		r.start.After(other.end) || r.start.Equal(other.end))
}

const confirmationAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewConfirmationCode returns a short human-readable code shown on receipts.
func NewConfirmationCode() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// Degenerate but non-fatal; codes are not a security boundary.
		return "BK000000"
	}
	for i, b := range buf {
		buf[i] = confirmationAlphabet[int(b)%len(confirmationAlphabet)]
	}
	return string(buf)
}
