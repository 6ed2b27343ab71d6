package model

import (
	attendeeModel "meetbook/internal/domains/attendee/model"
	"strings"
)

// PermanentHeaders maps the recognised sheet labels to attendee columns.
// Any other non-empty header is a brand column.
var PermanentHeaders = map[string]string{
	"Sr. No":              attendeeModel.FieldSerialNo,
	"First Name":          attendeeModel.FieldFirstName,
	"Last Name":           attendeeModel.FieldLastName,
	"Company Name":        attendeeModel.FieldCompany,
	"Title":               attendeeModel.FieldTitle,
	"Email Address":       attendeeModel.FieldEmail,
	"Mobile Phone Number": attendeeModel.FieldPhone,
}

// DefaultSelectionMarkers mark a brand cell as selected when found inside it.
var DefaultSelectionMarkers = []string{"1ptr", "1corp", "1str"}

// PermanentField returns the attendee column for a header label, if it has one.
// Labels match exactly after trimming, so "title" is a brand and "Title" is not.
func PermanentField(header string) (string, bool) {
	field, ok := PermanentHeaders[strings.TrimSpace(header)]

	return field, ok
}

type BrandColumn struct {
	Name  string
	Index int
}

// Layout is the classified header row.
type Layout struct {
	Fields map[string]int
	Brands []BrandColumn
}

// Candidate is one attendee as read from the sheet. Profile only holds the
// cells that were present.
type Candidate struct {
	Email      string
	SerialNo   *int
	Profile    map[string]string
	Selections attendeeModel.BrandSelections
}

// RowCounts tallies the data rows of a sheet. Considered rows carry an email;
// Merged of them were folded into an earlier row with the same email.
type RowCounts struct {
	Considered int
	Merged     int
	Skipped    int
}

type Update struct {
	ID     string
	Email  string
	Fields map[string]any
}

// Plan is the set of writes that reconciles a sheet with the stored roster.
type Plan struct {
	Inserts   []attendeeModel.Attendee
	Updates   []Update
	Unchanged int
}
