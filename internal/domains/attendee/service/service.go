package service

import (
	"context"
	"fmt"
	"meetbook/config"
	"meetbook/infras/otel"
	"meetbook/internal/domains/attendee/model"
	"meetbook/internal/domains/attendee/model/dto"
	"meetbook/internal/domains/attendee/repository"
	eventModel "meetbook/internal/domains/event/model"
	eventRepo "meetbook/internal/domains/event/repository"
	"meetbook/shared"
	"meetbook/shared/cache"
	"meetbook/shared/constant"
	gDto "meetbook/shared/dto"
	"meetbook/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAttendee    = constant.CachePrefixAttendee + ":get"
	cacheGetAllAttendee = constant.CachePrefixAttendee + ":gets"
	cacheCountAttendee  = constant.CachePrefixAttendee + ":count"

	errAttendeeNotFound        = "attendee not found"
	errAttendeeByEmailNotFound = "attendee not found with the provided email"
	errEventNotFound           = "event not found"
)

type Attendee interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAttendeesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.AttendeeResponse, error)
	Update(ctx context.Context, req dto.UpdateAttendeeRequest, id string) error
	Delete(ctx context.Context, id string) error
	DeleteAllByEvent(ctx context.Context, eventID string) (dto.DeleteAttendeesResponse, error)
	UpdateStatusByEmail(ctx context.Context, req dto.UpdateStatusByEmailRequest) (dto.AttendeeStatusResponse, error)
}

type serviceImpl struct {
	repo      repository.Attendee
	eventRepo eventRepo.Event
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Attendee, eventRepo eventRepo.Event, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Attendee {
	return &serviceImpl{
		repo:      repo,
		eventRepo: eventRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAttendeesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllAttendee, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for attendees")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get attendees")

		return res, fmt.Errorf("failed to get attendees: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save attendees to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountAttendee, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count attendees")

		return res, fmt.Errorf("failed to count attendees: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save attendee count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AttendeeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAttendee, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	attendee, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get attendee")

		return res, fmt.Errorf("failed to get attendee: %w", err)
	}

	if attendee.ID == constant.Empty {
		return res, failure.NotFound(errAttendeeNotFound) //nolint:wrapcheck
	}

	res.FromModel(attendee)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save attendee to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateAttendeeRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	actor := shared.Actor(ctx)
	fields := shared.TransformFields(req, actor)

	// A collected gift is always credited to whoever recorded it.
	if req.GiftCollected != nil && *req.GiftCollected {
		fields[model.FieldGiftBy] = actor
	}

	updated, err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to update attendee")

		return fmt.Errorf("failed to update attendee: %w", err)
	}

	if updated == 0 {
		return failure.NotFound(errAttendeeNotFound) //nolint:wrapcheck
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	return nil
}

// Delete removes the attendee and, through the foreign key, every slot it holds.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	deleted, err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to delete attendee")

		return fmt.Errorf("failed to delete attendee: %w", err)
	}

	if deleted == 0 {
		return failure.NotFound(errAttendeeNotFound) //nolint:wrapcheck
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	return nil
}

func (s *serviceImpl) DeleteAllByEvent(ctx context.Context, eventID string) (res dto.DeleteAttendeesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteAllByEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.eventRepo.Exist(ctx, shared.FilterByID(eventID, eventModel.FieldID, eventModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if event exists")

		return res, fmt.Errorf("failed to check if event exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound(errEventNotFound) //nolint:wrapcheck
	}

	res.DeletedCount, err = s.repo.Delete(ctx, shared.FilterByField(model.FieldEventID, eventID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to delete attendees")

		return res, fmt.Errorf("failed to delete attendees: %w", err)
	}

	log.Info().Str("event_id", eventID).Int64("deleted", res.DeletedCount).Msg("attendees deleted")

	go s.invalidate(context.WithoutCancel(ctx), constant.Empty)

	return res, nil
}

func (s *serviceImpl) UpdateStatusByEmail(ctx context.Context, req dto.UpdateStatusByEmailRequest) (res dto.AttendeeStatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatusByEmail")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldEventID, Value: req.EventID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldEmail, Value: req.Email, Operator: gDto.FilterOperatorIEq, Table: model.TableName},
		},
	}

	attendee, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get attendee by email")

		return res, fmt.Errorf("failed to get attendee by email: %w", err)
	}

	if attendee.ID == constant.Empty {
		return res, failure.NotFound(errAttendeeByEmailNotFound) //nolint:wrapcheck
	}

	fields := shared.WithAudit(map[string]any{model.FieldStatus: req.Status}, shared.Actor(ctx))

	if _, err = s.repo.Update(ctx, fields, shared.FilterByID(attendee.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update attendee status")

		return res, fmt.Errorf("failed to update attendee status: %w", err)
	}

	res.FromModel(attendee, req.Status)

	go s.invalidate(context.WithoutCancel(ctx), attendee.ID)

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if id != constant.Empty {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetAttendee, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete attendee from cache")
		}
	} else {
		shared.InvalidateCaches(ctx, s.cache, cacheGetAttendee)
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllAttendee)
	shared.InvalidateCaches(ctx, s.cache, cacheCountAttendee)
	shared.InvalidateCaches(ctx, s.cache, constant.CachePrefixSlot)
}
