package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"meetbook/shared/constant"
	"meetbook/shared/model"
)

const (
	TableName  = "attendees"
	EntityName = "attendee"

	FieldID            = "id"
	FieldEventID       = "event_id"
	FieldSerialNo      = "serial_no"
	FieldFirstName     = "first_name"
	FieldLastName      = "last_name"
	FieldCompany       = "company"
	FieldTitle         = "title"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldSelectedBy    = "selected_by"
	FieldStatus        = "status"
	FieldGiftCollected = "gift_collected"
	FieldGiftBy        = "gift_by"
	FieldComment       = "comment"
)

const (
	StatusPending      = "pending"
	StatusScheduled    = "scheduled"
	StatusCompleted    = "completed"
	StatusNotAvailable = "not-available"
	StatusRemoved      = "removed"
)

var Statuses = []string{StatusPending, StatusScheduled, StatusCompleted, StatusNotAvailable, StatusRemoved}

var SortableFields = []string{FieldSerialNo, FieldFirstName, FieldLastName, FieldCompany, FieldEmail, FieldStatus, constant.FieldCreatedAt}

var errSelectionsType = errors.New("selected_by: unsupported column type")

// BrandSelection records whether a brand picked the attendee.
type BrandSelection struct {
	BrandName string `json:"brand_name"`
	Selected  bool   `json:"selected"`
}

// BrandSelections is stored as a JSONB array.
type BrandSelections []BrandSelection

func (b BrandSelections) Value() (driver.Value, error) {
	if b == nil {
		return []byte("[]"), nil
	}

	raw, err := json.Marshal([]BrandSelection(b))
	if err != nil {
		return nil, fmt.Errorf("selected_by: %w", err)
	}

	return raw, nil
}

func (b *BrandSelections) Scan(src any) error {
	var raw []byte

	switch value := src.(type) {
	case nil:
		*b = BrandSelections{}

		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return errSelectionsType
	}

	selections := BrandSelections{}
	if err := json.Unmarshal(raw, &selections); err != nil {
		return fmt.Errorf("selected_by: %w", err)
	}

	*b = selections

	return nil
}

type Attendee struct {
	ID            string          `db:"id"`
	EventID       string          `db:"event_id"`
	SerialNo      *int            `db:"serial_no"`
	FirstName     string          `db:"first_name"`
	LastName      string          `db:"last_name"`
	Company       string          `db:"company"`
	Title         string          `db:"title"`
	Email         string          `db:"email"`
	Phone         string          `db:"phone"`
	SelectedBy    BrandSelections `db:"selected_by"`
	Status        string          `db:"status"`
	GiftCollected bool            `db:"gift_collected"`
	GiftBy        string          `db:"gift_by"`
	Comment       string          `db:"comment"`
	model.Metadata
}
