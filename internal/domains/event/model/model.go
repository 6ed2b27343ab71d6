package model

import (
	"meetbook/shared/constant"
	"meetbook/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "events"
	EntityName = "event"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldImage       = "image"
	FieldDescription = "description"
	FieldSlotGap     = "slot_gap"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldAssignedTo  = "assigned_to"
)

// SortableFields are the columns a client may order event listings by.
var SortableFields = []string{FieldTitle, FieldStartDate, FieldEndDate, constant.FieldCreatedAt}

type Event struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Image       string         `db:"image"`
	Description string         `db:"description"`
	SlotGap     int            `db:"slot_gap"`
	StartDate   time.Time      `db:"start_date"`
	EndDate     time.Time      `db:"end_date"`
	AssignedTo  pq.StringArray `db:"assigned_to"`
	model.Metadata
}
