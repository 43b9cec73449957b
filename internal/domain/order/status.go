package order

// transitions is the status graph offered to admins.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusProcessing: {StatusConfirmed, StatusCancelled},
}

// StatusOptions returns the statuses an admin may move an order to from
// current. Confirmed, completed and cancelled orders offer nothing.
func StatusOptions(current Status) []Status {
	return append([]Status(nil), transitions[current]...)
}

// CanTransition reports whether to is offered from from.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Settable reports whether s may be sent in a status change request.
func Settable(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}
