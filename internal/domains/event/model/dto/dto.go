package dto

import (
	"meetbook/internal/domains/event/model"
	"meetbook/shared"
	"meetbook/shared/constant"
	gDto "meetbook/shared/dto"
	"meetbook/shared/failure"
	gModel "meetbook/shared/model"
	"meetbook/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const errDateRange = "end_date must not be before start_date"

type CreateEventRequest struct {
	Title       string   `json:"title"       validate:"required,max=255"`
	Image       string   `json:"image"       validate:"omitempty,url"`
	Description string   `json:"description" validate:"omitempty"`
	SlotGap     int      `json:"slot_gap"    validate:"required,gt=0"`
	StartDate   string   `json:"start_date"  validate:"required,datetime=2006-01-02"`
	EndDate     string   `json:"end_date"    validate:"required,datetime=2006-01-02"`
	AssignedTo  []string `json:"assigned_to" validate:"omitempty,dive,required"`
}

func (c *CreateEventRequest) ToModel(user string) (model.Event, error) {
	startDate, endDate, err := ParseDateRange(c.StartDate, c.EndDate)
	if err != nil {
		return model.Event{}, err
	}

	assigned := pq.StringArray(c.AssignedTo)
	if assigned == nil {
		assigned = pq.StringArray{}
	}

	return model.Event{
		ID:          uuid.NewString(),
		Title:       c.Title,
		Image:       c.Image,
		Description: c.Description,
		SlotGap:     c.SlotGap,
		StartDate:   startDate,
		EndDate:     endDate,
		AssignedTo:  assigned,
		Metadata:    gModel.NewMetadata(user, timezone.Now()),
	}, nil
}

// ParseDateRange parses two YYYY-MM-DD days and rejects an inverted range.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := timezone.ParseDay(start)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	endDate, err := timezone.ParseDay(end)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, failure.BadRequestFromString(errDateRange) //nolint:wrapcheck
	}

	return startDate, endDate, nil
}

type UpdateEventRequest struct {
	Title       *string        `db:"title"       json:"title"       validate:"omitempty,min=1,max=255"`
	Image       *string        `db:"image"       json:"image"       validate:"omitempty"`
	Description *string        `db:"description" json:"description" validate:"omitempty"`
	SlotGap     *int           `db:"slot_gap"    json:"slot_gap"    validate:"omitempty,gt=0"`
	StartDate   string         `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string         `json:"end_date"   validate:"omitempty,datetime=2006-01-02"`
	AssignedTo  pq.StringArray `db:"assigned_to" json:"assigned_to" validate:"omitempty,dive,required"`
}

func (u *UpdateEventRequest) IsEmpty() bool {
	return u.Title == nil && u.Image == nil && u.Description == nil && u.SlotGap == nil &&
		u.StartDate == constant.Empty && u.EndDate == constant.Empty && u.AssignedTo == nil
}

type EventResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	SlotGap     int      `json:"slot_gap"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	AssignedTo  []string `json:"assigned_to"`
	gDto.Metadata
}

func (r *EventResponse) FromModel(model model.Event) {
	r.ID = model.ID
	r.Title = model.Title
	r.Image = model.Image
	r.Description = model.Description
	r.SlotGap = model.SlotGap
	r.StartDate = model.StartDate.Format(constant.DayDateFormat)
	r.EndDate = model.EndDate.Format(constant.DayDateFormat)
	r.AssignedTo = append([]string{}, model.AssignedTo...)
	r.Metadata.FromModel(model.Metadata)
}

type GetEventsResponse struct {
	Events    []EventResponse `json:"events"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetEventsResponse) FromModels(models []model.Event, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Events = make([]EventResponse, len(models))
	for i, mod := range models {
		r.Events[i].FromModel(mod)
	}
}
