package dto

import (
	"meetbook/internal/domains/slot/model"
	gDto "meetbook/shared/dto"
	gModel "meetbook/shared/model"
	"meetbook/shared/timezone"
	"strings"

	"github.com/google/uuid"
)

type BookSlotRequest struct {
	EventID    string `json:"event_id"    validate:"required,uuid"`
	AttendeeID string `json:"attendee_id" validate:"required,uuid"`
	Company    string `json:"company"     validate:"required,max=255"`
	TimeSlot   string `json:"time_slot"   validate:"required,max=64"`
}

func (b *BookSlotRequest) ToModel(user string) model.Slot {
	return model.Slot{
		ID:         uuid.NewString(),
		EventID:    b.EventID,
		AttendeeID: b.AttendeeID,
		Company:    strings.TrimSpace(b.Company),
		TimeSlot:   strings.TrimSpace(b.TimeSlot),
		Metadata:   gModel.NewMetadata(user, timezone.Now()),
	}
}

type DeleteSlotRequest struct {
	EventID    string `json:"event_id"    validate:"required,uuid"`
	AttendeeID string `json:"attendee_id" validate:"required,uuid"`
	TimeSlot   string `json:"time_slot"   validate:"required"`
}

type ToggleCompletionRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

type SlotResponse struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	AttendeeID string `json:"attendee_id"`
	Company    string `json:"company"`
	TimeSlot   string `json:"time_slot"`
	Completed  bool   `json:"completed"`
	gDto.Metadata
}

func (r *SlotResponse) FromModel(model model.Slot) {
	r.ID = model.ID
	r.EventID = model.EventID
	r.AttendeeID = model.AttendeeID
	r.Company = model.Company
	r.TimeSlot = model.TimeSlot
	r.Completed = model.Completed
	r.Metadata.FromModel(model.Metadata)
}

type GetSlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

func (r *GetSlotsResponse) FromModels(models []model.Slot) {
	r.Slots = make([]SlotResponse, len(models))
	for i, mod := range models {
		r.Slots[i].FromModel(mod)
	}
}

type SlotAttendee struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Title     string `json:"title"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
}

type SlotDetailResponse struct {
	SlotResponse
	Attendee SlotAttendee `json:"attendee"`
}

type GetCompanySlotsResponse struct {
	Company string               `json:"company"`
	Slots   []SlotDetailResponse `json:"slots"`
}

func (r *GetCompanySlotsResponse) FromModels(company string, models []model.SlotDetail) {
	r.Company = company
	r.Slots = make([]SlotDetailResponse, len(models))

	for i, mod := range models {
		r.Slots[i].FromModel(mod.Slot)
		r.Slots[i].Attendee = SlotAttendee{
			FirstName: mod.AttendeeFirstName,
			LastName:  mod.AttendeeLastName,
			Email:     mod.AttendeeEmail,
			Company:   mod.AttendeeCompany,
			Title:     mod.AttendeeTitle,
			Phone:     mod.AttendeePhone,
			Status:    mod.AttendeeStatus,
		}
	}
}

type CompanyCountResponse struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

type GetCompanyCountsResponse struct {
	Companies []CompanyCountResponse `json:"companies"`
}

func (r *GetCompanyCountsResponse) FromModels(models []model.CompanyCount) {
	r.Companies = make([]CompanyCountResponse, len(models))
	for i, mod := range models {
		r.Companies[i] = CompanyCountResponse{Company: mod.Company, Count: mod.Count}
	}
}
