package workingtime

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/validator"
)

// ========================================
// WORKING TIME DTOs
// ========================================

const maxTypeLength = 32

type WorkingTimeResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	CompanyID  string  `json:"company_id"`
	Date       string  `json:"date"`
	Start      string  `json:"start"`
	End        *string `json:"end"`
	Type       string  `json:"type"`
}

// Entry holds the editable fields of a record after parsing.
type Entry struct {
	Date  time.Time
	Start TimeOfDay
	End   *TimeOfDay
	Type  Type
}

type ListWorkingTimeFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	From       *string `json:"from,omitempty"` // YYYY-MM-DD
	To         *string `json:"to,omitempty"`   // YYYY-MM-DD
}

func (f *ListWorkingTimeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.From != nil && *f.From != "" {
		if _, valid := validator.IsValidDate(*f.From); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be in YYYY-MM-DD format",
			})
		}
	}

	if f.To != nil && *f.To != "" {
		if _, valid := validator.IsValidDate(*f.To); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Range resolves the filter dates, falling back to the given defaults.
// Only a range with both ends supplied may be rejected as inverted; a single
// bound that lands past its default simply selects nothing.
func (f *ListWorkingTimeFilter) Range(defaultFrom, defaultTo time.Time) (from, to time.Time, err error) {
	if err := f.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}

	hasFrom := f.From != nil && *f.From != ""
	hasTo := f.To != nil && *f.To != ""

	from, to = defaultFrom, defaultTo
	if hasFrom {
		from, _ = validator.IsValidDate(*f.From)
	}
	if hasTo {
		to, _ = validator.IsValidDate(*f.To)
	}
	if hasFrom && hasTo && from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}

type CreateWorkingTimeRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       string  `json:"date"`  // YYYY-MM-DD
	Start      string  `json:"start"` // HH:MM[:SS]
	End        *string `json:"end,omitempty"`
	Type       string  `json:"type"`
}

// Entry parses and validates the payload.
func (r *CreateWorkingTimeRequest) Entry() (Entry, error) {
	return parseEntry(r.Date, r.Start, r.End, r.Type)
}

// UpdateWorkingTimeRequest replaces date, start, end and type of a record
type UpdateWorkingTimeRequest struct {
	ID    string  `json:"-"`
	Date  string  `json:"date"`
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
	Type  string  `json:"type"`
}

// Entry parses and validates the payload.
func (r *UpdateWorkingTimeRequest) Entry() (Entry, error) {
	return parseEntry(r.Date, r.Start, r.End, r.Type)
}

type CheckinRequest struct {
	Type string `json:"type"`
}

func (r *CheckinRequest) Validate() error {
	var errs validator.ValidationErrors
	errs = validateType(errs, r.Type)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func parseEntry(date, start string, end *string, typ string) (Entry, error) {
	var errs validator.ValidationErrors
	var entry Entry

	if validator.IsEmpty(date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if parsed, valid := validator.IsValidDate(date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	} else {
		entry.Date = parsed
	}

	if validator.IsEmpty(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "start",
			Message: "start is required",
		})
	} else if parsed, err := ParseTimeOfDay(start); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "start",
			Message: "start must be in HH:MM or HH:MM:SS format",
		})
	} else {
		entry.Start = parsed
	}

	if end != nil && !validator.IsEmpty(*end) {
		parsed, err := ParseTimeOfDay(*end)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "end",
				Message: "end must be in HH:MM or HH:MM:SS format",
			})
		} else {
			entry.End = &parsed
		}
	}

	errs = validateType(errs, typ)
	entry.Type = Type(strings.TrimSpace(typ))

	if len(errs) > 0 {
		return Entry{}, errs
	}

	return entry, nil
}

func validateType(errs validator.ValidationErrors, typ string) validator.ValidationErrors {
	if validator.IsEmpty(typ) {
		return append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	}
	if !validator.MaxLength(strings.TrimSpace(typ), maxTypeLength) {
		return append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must not exceed 32 characters",
		})
	}
	return errs
}
