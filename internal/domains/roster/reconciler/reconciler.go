// Package reconciler turns a spreadsheet grid into attendee writes for one
// event. Nothing here touches storage.
package reconciler

import (
	"math"
	attendeeModel "meetbook/internal/domains/attendee/model"
	"meetbook/internal/domains/roster/model"
	"meetbook/shared"
	"meetbook/shared/constant"
	gModel "meetbook/shared/model"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ClassifyHeaders splits the header row into permanent columns and brand columns.
// The first occurrence of a permanent label wins.
func ClassifyHeaders(headers []string) model.Layout {
	layout := model.Layout{Fields: map[string]int{}}

	for index, header := range headers {
		header = strings.TrimSpace(header)
		if header == constant.Empty {
			continue
		}

		if field, ok := model.PermanentField(header); ok {
			if _, seen := layout.Fields[field]; !seen {
				layout.Fields[field] = index
			}

			continue
		}

		layout.Brands = append(layout.Brands, model.BrandColumn{Name: header, Index: index})
	}

	return layout
}

// IsSelected reports whether a brand cell contains one of the markers.
func IsSelected(cell string, markers []string) bool {
	value := strings.ToLower(strings.TrimSpace(cell))
	if value == constant.Empty {
		return false
	}

	for _, marker := range markers {
		if marker != constant.Empty && strings.Contains(value, strings.ToLower(marker)) {
			return true
		}
	}

	return false
}

// BuildCandidates reads the data rows. Blank rows are ignored, rows without an
// email are counted as skipped, and rows sharing an email are folded together
// in sheet order.
func BuildCandidates(layout model.Layout, rows [][]string, markers []string) ([]model.Candidate, model.RowCounts) {
	candidates := []model.Candidate{}
	positions := map[string]int{}
	counts := model.RowCounts{}

	for _, row := range rows {
		if isBlank(row) {
			continue
		}

		candidate := model.Candidate{Profile: map[string]string{}}

		for field, index := range layout.Fields {
			value := cell(row, index)
			if value == constant.Empty {
				continue
			}

			switch field {
			case attendeeModel.FieldEmail:
				candidate.Email = value
			case attendeeModel.FieldSerialNo:
				candidate.SerialNo = parseSerial(value)
			default:
				candidate.Profile[field] = value
			}
		}

		if candidate.Email == constant.Empty {
			counts.Skipped++

			continue
		}

		counts.Considered++

		selections := make(attendeeModel.BrandSelections, 0, len(layout.Brands))
		for _, brand := range layout.Brands {
			selections = append(selections, attendeeModel.BrandSelection{
				BrandName: brand.Name,
				Selected:  IsSelected(cell(row, brand.Index), markers),
			})
		}

		candidate.Selections = MergeSelections(nil, selections)

		key := strings.ToLower(candidate.Email)
		if position, ok := positions[key]; ok {
			candidates[position] = fold(candidates[position], candidate)
			counts.Merged++

			continue
		}

		positions[key] = len(candidates)
		candidates = append(candidates, candidate)
	}

	return candidates, counts
}

// MergeSelections updates brands already on file and appends the rest.
// Brands missing from incoming are kept untouched.
func MergeSelections(existing, incoming attendeeModel.BrandSelections) attendeeModel.BrandSelections {
	merged := make(attendeeModel.BrandSelections, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	for _, brand := range incoming {
		index := slices.IndexFunc(merged, func(current attendeeModel.BrandSelection) bool {
			return current.BrandName == brand.BrandName
		})

		if index >= 0 {
			merged[index].Selected = brand.Selected

			continue
		}

		merged = append(merged, brand)
	}

	return merged
}

// Plan matches candidates against the stored attendees of the event by
// case-insensitive email. Matches that would not change anything are only counted.
func Plan(eventID string, candidates []model.Candidate, existing []attendeeModel.Attendee, actor string, now time.Time) model.Plan {
	plan := model.Plan{}

	stored := make(map[string]attendeeModel.Attendee, len(existing))
	for _, attendee := range existing {
		stored[strings.ToLower(attendee.Email)] = attendee
	}

	for _, candidate := range candidates {
		current, ok := stored[strings.ToLower(candidate.Email)]
		if !ok {
			plan.Inserts = append(plan.Inserts, newAttendee(eventID, candidate, actor, now))

			continue
		}

		fields := changedFields(current, candidate)
		if len(fields) == 0 {
			plan.Unchanged++

			continue
		}

		plan.Updates = append(plan.Updates, model.Update{
			ID:     current.ID,
			Email:  current.Email,
			Fields: shared.WithAudit(fields, actor),
		})
	}

	return plan
}

func newAttendee(eventID string, candidate model.Candidate, actor string, now time.Time) attendeeModel.Attendee {
	attendee := attendeeModel.Attendee{
		ID:         uuid.NewString(),
		EventID:    eventID,
		Email:      candidate.Email,
		SerialNo:   candidate.SerialNo,
		SelectedBy: candidate.Selections,
		Status:     attendeeModel.StatusPending,
		Metadata:   gModel.NewMetadata(actor, now),
	}

	if attendee.SelectedBy == nil {
		attendee.SelectedBy = attendeeModel.BrandSelections{}
	}

	for field, value := range candidate.Profile {
		if target := profileField(&attendee, field); target != nil {
			*target = value
		}
	}

	return attendee
}

func changedFields(current attendeeModel.Attendee, candidate model.Candidate) map[string]any {
	fields := map[string]any{}

	for field, value := range candidate.Profile {
		if target := profileField(&current, field); target != nil && *target != value {
			fields[field] = value
		}
	}

	if candidate.SerialNo != nil && (current.SerialNo == nil || *current.SerialNo != *candidate.SerialNo) {
		fields[attendeeModel.FieldSerialNo] = *candidate.SerialNo
	}

	merged := MergeSelections(current.SelectedBy, candidate.Selections)
	if !slices.Equal(merged, current.SelectedBy) {
		fields[attendeeModel.FieldSelectedBy] = merged
	}

	return fields
}

func profileField(attendee *attendeeModel.Attendee, field string) *string {
	switch field {
	case attendeeModel.FieldFirstName:
		return &attendee.FirstName
	case attendeeModel.FieldLastName:
		return &attendee.LastName
	case attendeeModel.FieldCompany:
		return &attendee.Company
	case attendeeModel.FieldTitle:
		return &attendee.Title
	case attendeeModel.FieldPhone:
		return &attendee.Phone
	default:
		return nil
	}
}

// fold applies a later row for the same email on top of an earlier one.
func fold(earlier, later model.Candidate) model.Candidate {
	for field, value := range later.Profile {
		earlier.Profile[field] = value
	}

	if later.SerialNo != nil {
		earlier.SerialNo = later.SerialNo
	}

	earlier.Selections = MergeSelections(earlier.Selections, later.Selections)

	return earlier
}

func parseSerial(value string) *int {
	if serial, err := strconv.Atoi(value); err == nil {
		return &serial
	}

	number, err := strconv.ParseFloat(value, 64)
	if err != nil || number != math.Trunc(number) || number < 0 || number > math.MaxInt32 {
		return nil
	}

	serial := int(number)

	return &serial
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return constant.Empty
	}

	return strings.TrimSpace(row[index])
}

func isBlank(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != constant.Empty {
			return false
		}
	}

	return true
}
