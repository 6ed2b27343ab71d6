package service

import (
	"context"
	"fmt"
	"meetbook/config"
	"meetbook/infras/kafka"
	"meetbook/infras/metrics"
	"meetbook/infras/otel"
	"meetbook/infras/s3"
	attendeeModel "meetbook/internal/domains/attendee/model"
	attendeeRepo "meetbook/internal/domains/attendee/repository"
	eventModel "meetbook/internal/domains/event/model"
	eventRepo "meetbook/internal/domains/event/repository"
	"meetbook/internal/domains/roster/model"
	"meetbook/internal/domains/roster/model/dto"
	"meetbook/internal/domains/roster/parser"
	"meetbook/internal/domains/roster/reconciler"
	"meetbook/shared"
	"meetbook/shared/cache"
	"meetbook/shared/constant"
	gDto "meetbook/shared/dto"
	"meetbook/shared/failure"
	"meetbook/shared/timezone"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	minRows = 2

	errEventNotFound = "event not found"
	errNoDataRows    = "no valid data rows found in the file"
	errNoValidData   = "no valid data to process"

	messageProcessed = "File processed successfully"
	archiveDirectory = "rosters"
)

type Roster interface {
	Ingest(ctx context.Context, upload dto.Upload) (dto.IngestRosterResponse, error)
}

type serviceImpl struct {
	attendeeRepo attendeeRepo.Attendee
	eventRepo    eventRepo.Event
	storage      s3.S3
	activity     kafka.Client
	metrics      *metrics.Metrics
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	attendeeRepo attendeeRepo.Attendee,
	eventRepo eventRepo.Event,
	storage s3.S3,
	activity kafka.Client,
	metrics *metrics.Metrics,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Roster {
	return &serviceImpl{
		attendeeRepo: attendeeRepo,
		eventRepo:    eventRepo,
		storage:      storage,
		activity:     activity,
		metrics:      metrics,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// Ingest reconciles an uploaded sheet with the attendees of the event.
// Each row is written on its own; a failing row is logged and counted.
func (s *serviceImpl) Ingest(ctx context.Context, upload dto.Upload) (res dto.IngestRosterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Ingest")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.eventRepo.Exist(ctx, shared.FilterByID(upload.EventID, eventModel.FieldID, eventModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if event exists")

		return res, fmt.Errorf("failed to check if event exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound(errEventNotFound) //nolint:wrapcheck
	}

	rows, err := parser.Parse(upload.FileName, upload.Content)
	if err != nil {
		return res, failure.BadRequest(fmt.Errorf("failed to read spreadsheet: %w", err)) //nolint:wrapcheck
	}

	if len(rows) < minRows {
		return res, failure.BadRequestFromString(errNoDataRows) //nolint:wrapcheck
	}

	layout := reconciler.ClassifyHeaders(rows[0])
	candidates, counts := reconciler.BuildCandidates(layout, rows[1:], s.markers())

	if len(candidates) == 0 {
		return res, failure.BadRequestFromString(errNoValidData) //nolint:wrapcheck
	}

	log.Debug().
		Str("event_id", upload.EventID).
		Int("brands", len(layout.Brands)).
		Int("candidates", len(candidates)).
		Int("merged", counts.Merged).
		Int("skipped", counts.Skipped).
		Msg("roster parsed")

	existing, err := s.attendeeRepo.GetAll(ctx, gDto.QueryParams{},
		shared.FilterByField(attendeeModel.FieldEventID, upload.EventID, attendeeModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get event attendees")

		return res, fmt.Errorf("failed to get event attendees: %w", err)
	}

	plan := reconciler.Plan(upload.EventID, candidates, existing, shared.Actor(ctx), timezone.Now())

	res = s.apply(ctx, plan)
	res.Message = messageProcessed
	res.Skipped = counts.Skipped
	res.Merged = counts.Merged
	res.Total = counts.Considered
	res.ArchiveURL = s.archive(ctx, upload)

	log.Info().
		Str("event_id", upload.EventID).
		Int("inserted", res.Inserted).
		Int("updated", res.Updated).
		Int("unchanged", res.Unchanged).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("roster ingested")

	s.metrics.RosterIngested(res.Inserted, res.Updated, res.Skipped, res.Failed)
	s.activity.Publish(ctx, kafka.Activity{
		Type:       kafka.ActivityRosterIngested,
		EventID:    upload.EventID,
		Actor:      shared.Actor(ctx),
		OccurredAt: timezone.Now(),
		Data:       res,
	})

	shared.InvalidateCaches(ctx, s.cache, constant.CachePrefixAttendee)
	shared.InvalidateCaches(ctx, s.cache, constant.CachePrefixSlot)

	return res, nil
}

func (s *serviceImpl) apply(ctx context.Context, plan model.Plan) dto.IngestRosterResponse {
	res := dto.IngestRosterResponse{Unchanged: plan.Unchanged}

	for _, attendee := range plan.Inserts {
		if err := s.attendeeRepo.Insert(ctx, attendee); err != nil {
			log.Error().Err(err).Str("email", attendee.Email).Msg("failed to insert roster row")

			res.Failed++

			continue
		}

		res.Inserted++
	}

	for _, update := range plan.Updates {
		updated, err := s.attendeeRepo.Update(ctx, update.Fields,
			shared.FilterByID(update.ID, attendeeModel.FieldID, attendeeModel.TableName))
		if err != nil || updated == 0 {
			log.Error().Err(err).Str("email", update.Email).Msg("failed to update roster row")

			res.Failed++

			continue
		}

		res.Updated++
	}

	return res
}

// archive keeps a copy of the upload when an archive bucket is configured.
func (s *serviceImpl) archive(ctx context.Context, upload dto.Upload) string {
	bucket := s.cfg.Roster.ArchiveBucket
	if bucket == constant.Empty {
		return constant.Empty
	}

	directory := s.cfg.Roster.ArchiveDirectory
	if directory == constant.Empty {
		directory = archiveDirectory
	}

	fileName := fmt.Sprintf("%d-%s", timezone.Now().UnixNano(), path.Base(filepath.ToSlash(upload.FileName)))

	url, err := s.storage.UploadFileBytes(ctx, bucket, path.Join(directory, upload.EventID), fileName, upload.ContentType, upload.Content)
	if err != nil {
		log.Error().Err(err).Str("event_id", upload.EventID).Msg("failed to archive roster upload")

		return constant.Empty
	}

	return url
}

func (s *serviceImpl) markers() []string {
	markers := make([]string, 0, len(s.cfg.Roster.SelectionMarkers))

	for _, marker := range s.cfg.Roster.SelectionMarkers {
		if marker = strings.TrimSpace(marker); marker != constant.Empty {
			markers = append(markers, marker)
		}
	}

	if len(markers) == 0 {
		return model.DefaultSelectionMarkers
	}

	return markers
}
