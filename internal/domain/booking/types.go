package booking

type Status string

const (
	StatusConfirmed         Status = "confirmed"
	StatusPaid              Status = "paid"
	StatusCancelledByUser   Status = "cancelled_by_user"
	StatusCancelledByStudio Status = "cancelled_by_studio"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusPaid, StatusCancelledByUser, StatusCancelledByStudio:
		return true
	default:
		return false
	}
}

// IsCancelled reports whether the booking no longer occupies its slot.
// Cancelled bookings are excluded from the overlap universe.
func (s Status) IsCancelled() bool {
	return s == StatusCancelledByUser || s == StatusCancelledByStudio
}
