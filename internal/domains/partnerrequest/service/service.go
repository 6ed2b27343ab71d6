package service

import (
	"context"
	"fmt"
	"meetbook/infras/kafka"
	"meetbook/infras/metrics"
	"meetbook/infras/otel"
	attendeeModel "meetbook/internal/domains/attendee/model"
	attendeeRepo "meetbook/internal/domains/attendee/repository"
	eventModel "meetbook/internal/domains/event/model"
	eventRepo "meetbook/internal/domains/event/repository"
	"meetbook/internal/domains/partnerrequest/model"
	"meetbook/internal/domains/partnerrequest/model/dto"
	"meetbook/internal/domains/partnerrequest/repository"
	slotDto "meetbook/internal/domains/slot/model/dto"
	slotService "meetbook/internal/domains/slot/service"
	"meetbook/shared"
	"meetbook/shared/constant"
	gDto "meetbook/shared/dto"
	"meetbook/shared/failure"
	gRepo "meetbook/shared/repository"
	"meetbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	errRequestNotFound  = "partner request not found"
	errPartnerNotFound  = "partner not found in request"
	errAlreadyDecided   = "partner already processed"
	errEventNotFound    = "event not found"
	errAttendeeNotFound = "attendee not found"
)

type PartnerRequest interface {
	Create(ctx context.Context, req dto.CreatePartnerRequestRequest) (dto.PartnerRequestResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPartnerRequestsResponse, error)
	Get(ctx context.Context, id string) (dto.PartnerRequestResponse, error)
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, req dto.ApprovePartnerRequest, id, partnerID string) (dto.DecisionResponse, error)
	Decline(ctx context.Context, req dto.DeclinePartnerRequest, id, partnerID string) (dto.DecisionResponse, error)
}

type serviceImpl struct {
	repo         repository.PartnerRequest
	attendeeRepo attendeeRepo.Attendee
	eventRepo    eventRepo.Event
	slots        slotService.Slot
	transactor   gRepo.Transactor
	activity     kafka.Client
	metrics      *metrics.Metrics
	otel         otel.Otel
}

func New(
	repo repository.PartnerRequest,
	attendeeRepo attendeeRepo.Attendee,
	eventRepo eventRepo.Event,
	slots slotService.Slot,
	transactor gRepo.Transactor,
	activity kafka.Client,
	metrics *metrics.Metrics,
	otel otel.Otel,
) PartnerRequest {
	return &serviceImpl{
		repo:         repo,
		attendeeRepo: attendeeRepo,
		eventRepo:    eventRepo,
		slots:        slots,
		transactor:   transactor,
		activity:     activity,
		metrics:      metrics,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePartnerRequestRequest) (res dto.PartnerRequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.Actor(ctx)

	request, err := req.ToModel(actor)
	if err != nil {
		return res, err
	}

	if err = s.ensureEvent(ctx, request.EventID); err != nil {
		return res, err
	}

	if err = s.ensureAttendees(ctx, request.EventID, req.AttendeeIDs()); err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, request); err != nil {
		log.Error().Err(err).Msg("failed to create partner request")

		return res, fmt.Errorf("failed to create partner request: %w", err)
	}

	res.FromModel(request)

	s.publish(ctx, kafka.ActivityPartnerRequestCreated, request.EventID, actor, res)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPartnerRequestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count partner requests")

		return res, fmt.Errorf("failed to count partner requests: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get partner requests")

		return res, fmt.Errorf("failed to get partner requests: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PartnerRequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get partner request")

		return res, fmt.Errorf("failed to get partner request: %w", err)
	}

	if request.ID == constant.Empty {
		return res, failure.NotFound(errRequestNotFound) //nolint:wrapcheck
	}

	res.FromModel(request)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	deleted, err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to delete partner request")

		return fmt.Errorf("failed to delete partner request: %w", err)
	}

	if deleted == 0 {
		return failure.NotFound(errRequestNotFound) //nolint:wrapcheck
	}

	return nil
}

// Approve marks the partner approved. With a time slot the delegate is booked
// with the partner's company through the slot allocator, and a rejected booking
// leaves the partner pending.
func (s *serviceImpl) Approve(ctx context.Context, req dto.ApprovePartnerRequest, id, partnerID string) (res dto.DecisionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.Actor(ctx)

	var booked *slotDto.SlotResponse

	request, err := s.decide(ctx, id, partnerID, model.StatusApproved, constant.Empty, actor,
		func(request model.PartnerRequest, partner model.Partner) error {
			if req.TimeSlot == constant.Empty {
				return nil
			}

			slot, err := s.slots.Book(ctx, slotDto.BookSlotRequest{
				EventID:    request.EventID,
				AttendeeID: request.DelegateID,
				Company:    partner.Company,
				TimeSlot:   req.TimeSlot,
			})
			if err != nil {
				return err
			}

			booked = &slot

			return nil
		})
	if err != nil {
		return res, err
	}

	res.Request.FromModel(request)
	res.Slot = booked

	s.metrics.PartnerDecision(model.StatusApproved)
	s.publish(ctx, kafka.ActivityPartnerApproved, request.EventID, actor, res)

	return res, nil
}

func (s *serviceImpl) Decline(ctx context.Context, req dto.DeclinePartnerRequest, id, partnerID string) (res dto.DecisionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Decline")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.Actor(ctx)

	request, err := s.decide(ctx, id, partnerID, model.StatusDeclined, req.Reason, actor, nil)
	if err != nil {
		return res, err
	}

	res.Request.FromModel(request)

	s.metrics.PartnerDecision(model.StatusDeclined)
	s.publish(ctx, kafka.ActivityPartnerDeclined, request.EventID, actor, res)

	return res, nil
}

// decide locks the request, records the decision and runs then before the
// transaction commits. An error from then rolls the decision back.
func (s *serviceImpl) decide(
	ctx context.Context,
	id, partnerID, status, notes, actor string,
	then func(model.PartnerRequest, model.Partner) error,
) (request model.PartnerRequest, err error) {
	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		request, err = s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to lock partner request")

			return fmt.Errorf("failed to lock partner request: %w", err)
		}

		if request.ID == constant.Empty {
			return failure.NotFound(errRequestNotFound) //nolint:wrapcheck
		}

		index := request.Partners.Index(partnerID)
		if index < 0 {
			return failure.NotFound(errPartnerNotFound) //nolint:wrapcheck
		}

		if request.Partners[index].Status != model.StatusPending {
			return failure.BadRequestFromString(errAlreadyDecided) //nolint:wrapcheck
		}

		request.Decide(index, status, notes, timezone.Now())

		fields := shared.WithAudit(map[string]any{
			model.FieldPartners: request.Partners,
			model.FieldStatus:   request.Status,
		}, actor)

		if _, err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update partner request")

			return fmt.Errorf("failed to update partner request: %w", err)
		}

		if then == nil {
			return nil
		}

		return then(request, request.Partners[index])
	})

	return request, err
}

func (s *serviceImpl) ensureEvent(ctx context.Context, eventID string) error {
	exist, err := s.eventRepo.Exist(ctx, shared.FilterByID(eventID, eventModel.FieldID, eventModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if event exists")

		return fmt.Errorf("failed to check if event exists: %w", err)
	}

	if !exist {
		return failure.NotFound(errEventNotFound) //nolint:wrapcheck
	}

	return nil
}

// ensureAttendees fails unless every id is an attendee of the event.
func (s *serviceImpl) ensureAttendees(ctx context.Context, eventID string, ids []string) error {
	filter := shared.FilterByField(attendeeModel.FieldEventID, eventID, attendeeModel.TableName)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    attendeeModel.FieldID,
		Operator: gDto.FilterOperatorIn,
		Value:    ids,
		Table:    attendeeModel.TableName,
	})

	found, err := s.attendeeRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count attendees")

		return fmt.Errorf("failed to count attendees: %w", err)
	}

	if found != len(ids) {
		return failure.NotFound(errAttendeeNotFound) //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) publish(ctx context.Context, activityType, eventID, actor string, data any) {
	s.activity.Publish(ctx, kafka.Activity{
		Type:       activityType,
		EventID:    eventID,
		Actor:      actor,
		OccurredAt: timezone.Now(),
		Data:       data,
	})
}
