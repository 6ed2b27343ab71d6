package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"meetbook/shared/constant"
	"meetbook/shared/model"
	"slices"
	"time"
)

const (
	TableName  = "partner_requests"
	EntityName = "partner_request"

	FieldID         = "id"
	FieldEventID    = "event_id"
	FieldDelegateID = "delegate_id"
	FieldPartners   = "partners"
	FieldStatus     = "status"
	FieldMessage    = "message"
	FieldDueDate    = "due_date"
)

// A partner moves from pending to approved or declined once. The request
// status is derived from its partners.
const (
	StatusPending           = "pending"
	StatusApproved          = "approved"
	StatusDeclined          = "declined"
	StatusPartiallyApproved = "partially_approved"
)

var Statuses = []string{StatusPending, StatusApproved, StatusDeclined, StatusPartiallyApproved}

var SortableFields = []string{FieldStatus, FieldDueDate, constant.FieldCreatedAt}

var errPartnersType = errors.New("partners: unsupported column type")

// Partner is a company representative the delegate is asked to meet.
type Partner struct {
	AttendeeID string     `json:"attendee_id"`
	Company    string     `json:"company"`
	Status     string     `json:"status"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	Notes      string     `json:"notes"`
}

// Partners is stored as a JSONB array.
type Partners []Partner

func (p Partners) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}

	raw, err := json.Marshal([]Partner(p))
	if err != nil {
		return nil, fmt.Errorf("partners: %w", err)
	}

	return raw, nil
}

func (p *Partners) Scan(src any) error {
	var raw []byte

	switch value := src.(type) {
	case nil:
		*p = Partners{}

		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return errPartnersType
	}

	partners := Partners{}
	if err := json.Unmarshal(raw, &partners); err != nil {
		return fmt.Errorf("partners: %w", err)
	}

	*p = partners

	return nil
}

// Index returns the position of the partner with attendeeID, or -1.
func (p Partners) Index(attendeeID string) int {
	return slices.IndexFunc(p, func(partner Partner) bool {
		return partner.AttendeeID == attendeeID
	})
}

// Status summarises the partner decisions. A request with nothing approved
// yet stays pending until every partner has declined.
func (p Partners) Status() string {
	var pending, approved, declined int

	for _, partner := range p {
		switch partner.Status {
		case StatusApproved:
			approved++
		case StatusDeclined:
			declined++
		default:
			pending++
		}
	}

	switch {
	case len(p) == 0 || pending == len(p):
		return StatusPending
	case approved == len(p):
		return StatusApproved
	case declined == len(p):
		return StatusDeclined
	case approved == 0:
		return StatusPending
	default:
		return StatusPartiallyApproved
	}
}

type PartnerRequest struct {
	ID         string     `db:"id"`
	EventID    string     `db:"event_id"`
	DelegateID string     `db:"delegate_id"`
	Partners   Partners   `db:"partners"`
	Status     string     `db:"status"`
	Message    string     `db:"message"`
	DueDate    *time.Time `db:"due_date"`
	model.Metadata
}

// Decide records a decision for the partner at index and refreshes the request status.
func (r *PartnerRequest) Decide(index int, status, notes string, at time.Time) {
	r.Partners[index].Status = status
	r.Partners[index].DecidedAt = &at
	r.Partners[index].Notes = notes
	r.Status = r.Partners.Status()
}
