package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Slot=MockSlotService

import (
	"context"
	"errors"
	"fmt"
	"meetbook/config"
	"meetbook/infras/kafka"
	"meetbook/infras/metrics"
	"meetbook/infras/otel"
	attendeeModel "meetbook/internal/domains/attendee/model"
	attendeeRepo "meetbook/internal/domains/attendee/repository"
	eventModel "meetbook/internal/domains/event/model"
	eventRepo "meetbook/internal/domains/event/repository"
	"meetbook/internal/domains/slot/model"
	"meetbook/internal/domains/slot/model/dto"
	"meetbook/internal/domains/slot/repository"
	"meetbook/shared"
	"meetbook/shared/cache"
	"meetbook/shared/constant"
	gDto "meetbook/shared/dto"
	"meetbook/shared/failure"
	gRepo "meetbook/shared/repository"
	"meetbook/shared/timezone"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllSlot        = constant.CachePrefixSlot + ":gets"
	cacheGetCompanySlot    = constant.CachePrefixSlot + ":company"
	cacheCompanyCountsSlot = constant.CachePrefixSlot + ":companies"

	errSlotNotFound     = "slot not found"
	errAttendeeNotFound = "attendee not found"
	errEventNotFound    = "event not found"

	operationBook       = "book"
	operationDelete     = "delete"
	operationCompletion = "completion"
)

type Slot interface {
	Book(ctx context.Context, req dto.BookSlotRequest) (dto.SlotResponse, error)
	Delete(ctx context.Context, req dto.DeleteSlotRequest) error
	ToggleCompletion(ctx context.Context, req dto.ToggleCompletionRequest, id string) (dto.SlotResponse, error)
	GetAll(ctx context.Context, eventID string) (dto.GetSlotsResponse, error)
	GetByCompany(ctx context.Context, eventID, company string) (dto.GetCompanySlotsResponse, error)
	CompanyCounts(ctx context.Context, eventID string) (dto.GetCompanyCountsResponse, error)
}

type serviceImpl struct {
	repo         repository.Slot
	attendeeRepo attendeeRepo.Attendee
	eventRepo    eventRepo.Event
	transactor   gRepo.Transactor
	activity     kafka.Client
	metrics      *metrics.Metrics
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Slot,
	attendeeRepo attendeeRepo.Attendee,
	eventRepo eventRepo.Event,
	transactor gRepo.Transactor,
	activity kafka.Client,
	metrics *metrics.Metrics,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Slot {
	return &serviceImpl{
		repo:         repo,
		attendeeRepo: attendeeRepo,
		eventRepo:    eventRepo,
		transactor:   transactor,
		activity:     activity,
		metrics:      metrics,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// Book checks the booking rules in order, then writes the slot and schedules
// the attendee in one transaction. A rule broken by a concurrent booking is
// caught by the matching unique constraint.
func (s *serviceImpl) Book(ctx context.Context, req dto.BookSlotRequest) (res dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Book")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.Actor(ctx)
	slot := req.ToModel(actor)

	if slot.Company == constant.Empty || slot.TimeSlot == constant.Empty {
		return res, failure.BadRequestFromString("company and time_slot are required") //nolint:wrapcheck
	}

	if err = s.ensureEvent(ctx, slot.EventID); err != nil {
		return res, err
	}

	for _, conflict := range model.Conflicts {
		taken, err := s.repo.Exist(ctx, conflict.Filter(slot))
		if err != nil {
			log.Error().Err(err).Msg("failed to check slot availability")

			return res, fmt.Errorf("failed to check slot availability: %w", err)
		}

		if taken {
			s.metrics.SlotConflict(conflict.String())

			return res, failure.Conflict(conflict.Message()) //nolint:wrapcheck
		}
	}

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, slot); err != nil {
			return s.insertError(err)
		}

		return s.setAttendeeStatus(ctx, tx, slot, attendeeModel.StatusScheduled, actor)
	})
	if err != nil {
		return res, err
	}

	res.FromModel(slot)

	s.metrics.SlotMutation(operationBook)
	s.publish(ctx, kafka.ActivitySlotBooked, slot.EventID, actor, res)

	go s.invalidate(context.WithoutCancel(ctx))

	return res, nil
}

// Delete removes the slot matching event, attendee and time and puts the attendee back to pending.
func (s *serviceImpl) Delete(ctx context.Context, req dto.DeleteSlotRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.Actor(ctx)
	slot := model.Slot{EventID: req.EventID, AttendeeID: req.AttendeeID, TimeSlot: strings.TrimSpace(req.TimeSlot)}

	filter := shared.FilterByFields(model.TableName,
		gDto.FieldValue{Field: model.FieldEventID, Value: slot.EventID},
		gDto.FieldValue{Field: model.FieldAttendeeID, Value: slot.AttendeeID},
		gDto.FieldValue{Field: model.FieldTimeSlot, Value: slot.TimeSlot},
	)

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		deleted, err := s.repo.DeleteTx(ctx, tx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to delete slot")

			return fmt.Errorf("failed to delete slot: %w", err)
		}

		if deleted == 0 {
			return failure.NotFound(errSlotNotFound) //nolint:wrapcheck
		}

		return s.setAttendeeStatus(ctx, tx, slot, attendeeModel.StatusPending, actor)
	})
	if err != nil {
		return err
	}

	s.metrics.SlotMutation(operationDelete)
	s.publish(ctx, kafka.ActivitySlotDeleted, slot.EventID, actor, req)

	go s.invalidate(context.WithoutCancel(ctx))

	return nil
}

// ToggleCompletion sets the completed flag and moves the attendee to completed or back to scheduled.
func (s *serviceImpl) ToggleCompletion(ctx context.Context, req dto.ToggleCompletionRequest, id string) (res dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ToggleCompletion")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.Completed == nil {
		return res, failure.BadRequestFromString("completed must be a boolean") //nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	slot, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get slot")

		return res, fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return res, failure.NotFound(errSlotNotFound) //nolint:wrapcheck
	}

	actor := shared.Actor(ctx)
	completed := *req.Completed

	status := attendeeModel.StatusScheduled
	if completed {
		status = attendeeModel.StatusCompleted
	}

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		fields := shared.WithAudit(map[string]any{model.FieldCompleted: completed}, actor)

		updated, err := s.repo.UpdateTx(ctx, tx, fields, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to update slot completion")

			return fmt.Errorf("failed to update slot completion: %w", err)
		}

		if updated == 0 {
			return failure.NotFound(errSlotNotFound) //nolint:wrapcheck
		}

		return s.setAttendeeStatus(ctx, tx, slot, status, actor)
	})
	if err != nil {
		return res, err
	}

	slot.Completed = completed
	slot.ModifiedBy = actor
	slot.ModifiedAt = timezone.Now()

	res.FromModel(slot)

	s.metrics.SlotMutation(operationCompletion)
	s.publish(ctx, kafka.ActivitySlotCompletion, slot.EventID, actor, res)

	go s.invalidate(context.WithoutCancel(ctx))

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, eventID string) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAllSlot, eventID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldTimeSlot, SortDir: gDto.SortDirAsc}

	slots, err := s.repo.GetAll(ctx, params, shared.FilterByField(model.FieldEventID, eventID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get slots")

		return res, fmt.Errorf("failed to get slots: %w", err)
	}

	res.FromModels(slots)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) GetByCompany(ctx context.Context, eventID, company string) (res dto.GetCompanySlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByCompany")
	defer scope.End()
	defer scope.TraceIfError(err)

	company = strings.TrimSpace(company)
	if company == constant.Empty {
		return res, failure.BadRequestFromString("company is required") //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheGetCompanySlot, eventID, strings.ToLower(company))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	slots, err := s.repo.GetByCompany(ctx, eventID, company)
	if err != nil {
		log.Error().Err(err).Msg("failed to get company slots")

		return res, fmt.Errorf("failed to get company slots: %w", err)
	}

	res.FromModels(company, slots)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) CompanyCounts(ctx context.Context, eventID string) (res dto.GetCompanyCountsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CompanyCounts")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheCompanyCountsSlot, eventID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	counts, err := s.repo.CompanyCounts(ctx, eventID)
	if err != nil {
		log.Error().Err(err).Msg("failed to count company slots")

		return res, fmt.Errorf("failed to count company slots: %w", err)
	}

	res.FromModels(counts)

	s.save(ctx, cacheKey, res)

	return res, nil
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

// setAttendeeStatus fails with not found when the slot's attendee is gone, rolling the transaction back.
func (s *serviceImpl) setAttendeeStatus(ctx context.Context, tx *sqlx.Tx, slot model.Slot, status, actor string) error {
	filter := shared.FilterByFields(attendeeModel.TableName,
		gDto.FieldValue{Field: attendeeModel.FieldID, Value: slot.AttendeeID},
		gDto.FieldValue{Field: attendeeModel.FieldEventID, Value: slot.EventID},
	)

	updated, err := s.attendeeRepo.UpdateTx(ctx, tx, shared.WithAudit(map[string]any{attendeeModel.FieldStatus: status}, actor), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to update attendee status")

		return fmt.Errorf("failed to update attendee status: %w", err)
	}

	if updated == 0 {
		return failure.NotFound(errAttendeeNotFound) //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) insertError(err error) error {
	if conflict, ok := model.ConflictFromError(err); ok {
		s.metrics.SlotConflict(conflict.String())

		return failure.Conflict(conflict.Message()) //nolint:wrapcheck
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeFkViolation {
		return failure.NotFound(errAttendeeNotFound) //nolint:wrapcheck
	}

	log.Error().Err(err).Msg("failed to insert slot")

	return fmt.Errorf("failed to insert slot: %w", err)
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

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save slots to cache")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	shared.InvalidateCaches(ctx, s.cache, constant.CachePrefixSlot)
	shared.InvalidateCaches(ctx, s.cache, constant.CachePrefixAttendee)
}
