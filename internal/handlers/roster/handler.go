package roster

import (
	"errors"
	"fmt"
	"io"
	"meetbook/config"
	"meetbook/infras/otel"
	"meetbook/internal/domains/roster/model/dto"
	"meetbook/internal/domains/roster/service"
	"meetbook/shared/constant"
	"meetbook/shared/failure"
	"meetbook/shared/validator"
	"meetbook/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	defaultMaxUploadMB = 10
	bytesPerMB         = 1024 * 1024

	// multipartOverhead covers the part headers and boundaries around the file.
	multipartOverhead = 64 * 1024
)

type Handler struct {
	service service.Roster
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Roster, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

// EventRouter registers the roster upload under /events/{id}.
func (handler *Handler) EventRouter(routerGroup chi.Router) {
	routerGroup.Post("/{id}/roster", handler.IngestRoster)
}

// IngestRoster merges an uploaded attendee sheet into the event roster.
// @Summary Upload an attendee roster
// @Tags Roster
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Event ID"
// @Param file formData file true "Roster spreadsheet (.xlsx or .csv)"
// @Success 200 {object} response.Data[dto.IngestRosterResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/events/{id}/roster [post]
func (handler *Handler) IngestRoster(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".IngestRoster")
	defer scope.End()

	eventID := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, eventID); err != nil {
		response.WithError(w, err)

		return
	}

	maxMB := handler.maxUploadMB()
	maxBytes := int64(maxMB * bytesPerMB)

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WithError(w, sizeError(maxMB))

			return
		}

		response.WithError(w, failure.BadRequest(err))

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		response.WithError(w, failure.BadRequestFromString("file is required"))

		return
	}
	defer file.Close()

	req := dto.IngestRosterRequest{File: fileHeader}
	if err = validator.ValidateStruct(&req); err != nil {
		response.WithError(w, err)

		return
	}

	if fileHeader.Size > maxBytes {
		response.WithError(w, sizeError(maxMB))

		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read uploaded file")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	res, err := handler.service.Ingest(ctx, dto.Upload{
		EventID:     eventID,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(constant.RequestHeaderContentType),
		Content:     content,
	})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to ingest roster")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

func sizeError(maxMB float64) error {
	return failure.BadRequestFromString(fmt.Sprintf("file must not exceed %g MB", maxMB)) //nolint:wrapcheck
}

func (handler *Handler) maxUploadMB() float64 {
	if handler.cfg.Roster.MaxUploadMB > 0 {
		return handler.cfg.Roster.MaxUploadMB
	}

	return defaultMaxUploadMB
}
