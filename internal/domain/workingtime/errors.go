package workingtime

import "errors"

// Working time domain errors
var (
	ErrWorkingTimeNotFound = errors.New("working time not found")
	ErrUnauthorized        = errors.New("unauthorized to access this working time")
	ErrEndBeforeStart      = errors.New("end time must be after start time")
	ErrInvalidDateRange    = errors.New("from must not be after to")

	// Checkin/checkout errors
	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrNotCheckedIn     = errors.New("not checked in")
)

// Action names the operation an access check guards.
type Action string

const (
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var deniedMessages = map[Action]string{
	ActionList:   "Sie sind nicht berechtigt, die Arbeitszeiten dieses Mitarbeiters aufzulisten.",
	ActionCreate: "Sie sind nicht berechtigt, für diesen Mitarbeiter eine Arbeitszeit anzulegen.",
	ActionRead:   "Sie sind nicht berechtigt, diese Arbeitszeit anzuzeigen.",
	ActionUpdate: "Sie sind nicht berechtigt, diese Arbeitszeit zu bearbeiten.",
	ActionDelete: "Sie sind nicht berechtigt, diese Arbeitszeit zu löschen.",
}

// AccessDeniedError is returned when the access policy rejects an action.
// It matches ErrUnauthorized with errors.Is.
type AccessDeniedError struct {
	Action Action
}

func (e *AccessDeniedError) Error() string {
	if msg, ok := deniedMessages[e.Action]; ok {
		return msg
	}
	return "Sie sind nicht berechtigt, diese Aktion auszuführen."
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrUnauthorized
}
