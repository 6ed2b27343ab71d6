package dto

import (
	"fmt"
	"meetbook/internal/domains/partnerrequest/model"
	slotDto "meetbook/internal/domains/slot/model/dto"
	"meetbook/shared"
	"meetbook/shared/constant"
	gDto "meetbook/shared/dto"
	"meetbook/shared/failure"
	gModel "meetbook/shared/model"
	"meetbook/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

const errDelegateIsPartner = "delegate cannot be one of the partners"

type PartnerInput struct {
	AttendeeID string `json:"attendee_id" validate:"required,uuid"`
	Company    string `json:"company"     validate:"required,max=255"`
}

type CreatePartnerRequestRequest struct {
	EventID    string         `json:"event_id"    validate:"required,uuid"`
	DelegateID string         `json:"delegate_id" validate:"required,uuid"`
	Partners   []PartnerInput `json:"partners"    validate:"required,min=1,dive"`
	Message    string         `json:"message"     validate:"omitempty,max=2000"`
	DueDate    string         `json:"due_date"    validate:"omitempty,datetime=2006-01-02"`
}

// AttendeeIDs lists the delegate followed by every partner.
func (c *CreatePartnerRequestRequest) AttendeeIDs() []string {
	ids := make([]string, 0, len(c.Partners)+1)
	ids = append(ids, c.DelegateID)

	for _, partner := range c.Partners {
		ids = append(ids, partner.AttendeeID)
	}

	return ids
}

func (c *CreatePartnerRequestRequest) ToModel(user string) (model.PartnerRequest, error) {
	partners := make(model.Partners, 0, len(c.Partners))
	seen := map[string]bool{}

	for _, input := range c.Partners {
		company := strings.TrimSpace(input.Company)

		switch {
		case input.AttendeeID == c.DelegateID:
			return model.PartnerRequest{}, failure.BadRequestFromString(errDelegateIsPartner) //nolint:wrapcheck
		case seen[input.AttendeeID]:
			return model.PartnerRequest{}, failure.BadRequestFromString(fmt.Sprintf("partner %s is listed twice", input.AttendeeID)) //nolint:wrapcheck
		case company == constant.Empty:
			return model.PartnerRequest{}, failure.BadRequestFromString("partner company is required") //nolint:wrapcheck
		}

		seen[input.AttendeeID] = true
		partners = append(partners, model.Partner{AttendeeID: input.AttendeeID, Company: company, Status: model.StatusPending})
	}

	var dueDate *time.Time

	if c.DueDate != constant.Empty {
		day, err := timezone.ParseDay(c.DueDate)
		if err != nil {
			return model.PartnerRequest{}, failure.BadRequest(err) //nolint:wrapcheck
		}

		dueDate = &day
	}

	return model.PartnerRequest{
		ID:         uuid.NewString(),
		EventID:    c.EventID,
		DelegateID: c.DelegateID,
		Partners:   partners,
		Status:     model.StatusPending,
		Message:    strings.TrimSpace(c.Message),
		DueDate:    dueDate,
		Metadata:   gModel.NewMetadata(user, timezone.Now()),
	}, nil
}

// ApprovePartnerRequest books the delegate with the partner's company when TimeSlot is set.
type ApprovePartnerRequest struct {
	TimeSlot string `json:"time_slot" validate:"omitempty,max=64"`
}

type DeclinePartnerRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

type PartnerResponse struct {
	AttendeeID string `json:"attendee_id"`
	Company    string `json:"company"`
	Status     string `json:"status"`
	DecidedAt  string `json:"decided_at,omitempty"`
	Notes      string `json:"notes"`
}

type PartnerRequestResponse struct {
	ID         string            `json:"id"`
	EventID    string            `json:"event_id"`
	DelegateID string            `json:"delegate_id"`
	Partners   []PartnerResponse `json:"partners"`
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	DueDate    string            `json:"due_date,omitempty"`
	gDto.Metadata
}

func (r *PartnerRequestResponse) FromModel(model model.PartnerRequest) {
	r.ID = model.ID
	r.EventID = model.EventID
	r.DelegateID = model.DelegateID
	r.Status = model.Status
	r.Message = model.Message
	r.DueDate = constant.Empty

	if model.DueDate != nil {
		r.DueDate = model.DueDate.Format(constant.DayDateFormat)
	}

	r.Partners = make([]PartnerResponse, len(model.Partners))
	for i, partner := range model.Partners {
		r.Partners[i] = PartnerResponse{
			AttendeeID: partner.AttendeeID,
			Company:    partner.Company,
			Status:     partner.Status,
			Notes:      partner.Notes,
		}

		if partner.DecidedAt != nil {
			r.Partners[i].DecidedAt = timezone.Format(*partner.DecidedAt, constant.DateFormat)
		}
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetPartnerRequestsResponse struct {
	PartnerRequests []PartnerRequestResponse `json:"partner_requests"`
	TotalPage       int                      `json:"total_page"`
	TotalData       int                      `json:"total_data"`
}

func (r *GetPartnerRequestsResponse) FromModels(models []model.PartnerRequest, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.PartnerRequests = make([]PartnerRequestResponse, len(models))
	for i, mod := range models {
		r.PartnerRequests[i].FromModel(mod)
	}
}

// DecisionResponse carries the updated request and, for an approval with a
// time slot, the booked slot.
type DecisionResponse struct {
	Request PartnerRequestResponse `json:"request"`
	Slot    *slotDto.SlotResponse  `json:"slot,omitempty"`
}
