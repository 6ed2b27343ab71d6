package model

import (
	"errors"
	"meetbook/shared"
	"meetbook/shared/constant"
	gDto "meetbook/shared/dto"
	"meetbook/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "slots"
	EntityName = "slot"

	FieldID         = "id"
	FieldEventID    = "event_id"
	FieldAttendeeID = "attendee_id"
	FieldCompany    = "company"
	FieldTimeSlot   = "time_slot"
	FieldCompleted  = "completed"
)

type Slot struct {
	ID         string `db:"id"`
	EventID    string `db:"event_id"`
	AttendeeID string `db:"attendee_id"`
	Company    string `db:"company"`
	TimeSlot   string `db:"time_slot"`
	Completed  bool   `db:"completed"`
	model.Metadata
}

// SlotDetail is a slot joined with the profile of its attendee.
type SlotDetail struct {
	Slot
	AttendeeFirstName string `db:"attendee_first_name"`
	AttendeeLastName  string `db:"attendee_last_name"`
	AttendeeEmail     string `db:"attendee_email"`
	AttendeeCompany   string `db:"attendee_company"`
	AttendeeTitle     string `db:"attendee_title"`
	AttendeePhone     string `db:"attendee_phone"`
	AttendeeStatus    string `db:"attendee_status"`
}

type CompanyCount struct {
	Company string `db:"company"`
	Count   int    `db:"count"`
}

// Conflict names one of the booking rules a new slot can break.
type Conflict int

const (
	ConflictAttendeeTime Conflict = iota + 1
	ConflictCompanyTime
	ConflictAttendeeCompany
)

// Conflicts lists the rules in the order they are checked.
var Conflicts = []Conflict{ConflictAttendeeTime, ConflictCompanyTime, ConflictAttendeeCompany}

func (c Conflict) String() string {
	switch c {
	case ConflictAttendeeTime:
		return "attendee_time"
	case ConflictCompanyTime:
		return "company_time"
	case ConflictAttendeeCompany:
		return "attendee_company"
	default:
		return "unknown"
	}
}

func (c Conflict) Message() string {
	switch c {
	case ConflictAttendeeTime:
		return "slot already booked, please choose another slot"
	case ConflictCompanyTime:
		return "this time is already booked for the selected company"
	case ConflictAttendeeCompany:
		return "slot with same company already booked"
	default:
		return "slot conflict"
	}
}

// Constraint is the unique constraint on the slots table backing the rule.
func (c Conflict) Constraint() string {
	switch c {
	case ConflictAttendeeTime:
		return "slots_event_time_attendee_key"
	case ConflictCompanyTime:
		return "slots_event_company_time_key"
	case ConflictAttendeeCompany:
		return "slots_event_attendee_company_key"
	default:
		return constant.Empty
	}
}

// Filter matches the existing slots that would collide with s under the rule.
func (c Conflict) Filter(s Slot) gDto.FilterGroup {
	pairs := []gDto.FieldValue{{Field: FieldEventID, Value: s.EventID}}

	switch c {
	case ConflictAttendeeTime:
		pairs = append(pairs,
			gDto.FieldValue{Field: FieldTimeSlot, Value: s.TimeSlot},
			gDto.FieldValue{Field: FieldAttendeeID, Value: s.AttendeeID})
	case ConflictCompanyTime:
		pairs = append(pairs,
			gDto.FieldValue{Field: FieldCompany, Value: s.Company},
			gDto.FieldValue{Field: FieldTimeSlot, Value: s.TimeSlot})
	case ConflictAttendeeCompany:
		pairs = append(pairs,
			gDto.FieldValue{Field: FieldAttendeeID, Value: s.AttendeeID},
			gDto.FieldValue{Field: FieldCompany, Value: s.Company})
	}

	return shared.FilterByFields(TableName, pairs...)
}

// ConflictFromError maps a unique violation on one of the slot constraints to its rule.
func ConflictFromError(err error) (Conflict, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != constant.PqErrorCodeUniqueViolation {
		return 0, false
	}

	for _, conflict := range Conflicts {
		if pqErr.Constraint == conflict.Constraint() {
			return conflict, true
		}
	}

	return 0, false
}
