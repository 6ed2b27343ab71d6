package dto

import (
	"meetbook/internal/domains/attendee/model"
	"meetbook/shared"
	gDto "meetbook/shared/dto"
)

type UpdateAttendeeRequest struct {
	SerialNo      *int    `db:"serial_no"      json:"serial_no"      validate:"omitempty,gte=0"`
	FirstName     *string `db:"first_name"     json:"first_name"     validate:"omitempty,max=255"`
	LastName      *string `db:"last_name"      json:"last_name"      validate:"omitempty,max=255"`
	Company       *string `db:"company"        json:"company"        validate:"omitempty,max=255"`
	Title         *string `db:"title"          json:"title"          validate:"omitempty,max=255"`
	Phone         *string `db:"phone"          json:"phone"          validate:"omitempty,max=50"`
	Status        *string `db:"status"         json:"status"         validate:"omitempty,oneof=pending scheduled completed not-available removed"`
	GiftCollected *bool   `db:"gift_collected" json:"gift_collected" validate:"omitempty"`
	GiftBy        *string `db:"gift_by"        json:"gift_by"        validate:"omitempty"`
	Comment       *string `db:"comment"        json:"comment"        validate:"omitempty"`
}

func (u *UpdateAttendeeRequest) IsEmpty() bool {
	return u.SerialNo == nil && u.FirstName == nil && u.LastName == nil && u.Company == nil &&
		u.Title == nil && u.Phone == nil && u.Status == nil && u.GiftCollected == nil &&
		u.GiftBy == nil && u.Comment == nil
}

// UpdateStatusByEmailRequest is sent by internal callers holding the API key.
type UpdateStatusByEmailRequest struct {
	EventID string `json:"event_id" validate:"required,uuid"`
	Email   string `json:"email"    validate:"required,email"`
	Status  string `json:"status"   validate:"required,oneof=pending completed not-available removed"`
}

type AttendeeStatusResponse struct {
	Email     string `json:"email"`
	Status    string `json:"status"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r *AttendeeStatusResponse) FromModel(model model.Attendee, status string) {
	r.Email = model.Email
	r.Status = status
	r.FirstName = model.FirstName
	r.LastName = model.LastName
}

type AttendeeResponse struct {
	ID            string                 `json:"id"`
	EventID       string                 `json:"event_id"`
	SerialNo      *int                   `json:"serial_no"`
	FirstName     string                 `json:"first_name"`
	LastName      string                 `json:"last_name"`
	Company       string                 `json:"company"`
	Title         string                 `json:"title"`
	Email         string                 `json:"email"`
	Phone         string                 `json:"phone"`
	SelectedBy    []model.BrandSelection `json:"selected_by"`
	Status        string                 `json:"status"`
	GiftCollected bool                   `json:"gift_collected"`
	GiftBy        string                 `json:"gift_by"`
	Comment       string                 `json:"comment"`
	gDto.Metadata
}

func (r *AttendeeResponse) FromModel(model model.Attendee) {
	r.ID = model.ID
	r.EventID = model.EventID
	r.SerialNo = model.SerialNo
	r.FirstName = model.FirstName
	r.LastName = model.LastName
	r.Company = model.Company
	r.Title = model.Title
	r.Email = model.Email
	r.Phone = model.Phone
	r.SelectedBy = append(r.SelectedBy[:0:0], model.SelectedBy...)
	r.Status = model.Status
	r.GiftCollected = model.GiftCollected
	r.GiftBy = model.GiftBy
	r.Comment = model.Comment
	r.Metadata.FromModel(model.Metadata)
}

type GetAttendeesResponse struct {
	Attendees []AttendeeResponse `json:"attendees"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetAttendeesResponse) FromModels(models []model.Attendee, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Attendees = make([]AttendeeResponse, len(models))
	for i, mod := range models {
		r.Attendees[i].FromModel(mod)
	}
}

type DeleteAttendeesResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}
