package policy

// Status is the lifecycle state of a referral. The engine reads it and never
// changes it.
type Status string

// Referral statuses.
const (
	StatusDraft      Status = "draft"
	StatusPending    Status = "pending"
	StatusInReview   Status = "in_review"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every referral status.
func Statuses() []Status {
	return []Status{
		StatusDraft,
		StatusPending,
		StatusInReview,
		StatusAccepted,
		StatusInProgress,
		StatusCompleted,
		StatusRejected,
		StatusCancelled,
	}
}

// Valid reports whether s is one of Statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

func statusIn(s Status, allowed []Status) bool {
	if !s.Valid() {
		return false
	}
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
