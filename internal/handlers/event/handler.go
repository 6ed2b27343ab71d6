package event

import (
	"meetbook/infras/otel"
	"meetbook/internal/domains/event/model"
	"meetbook/internal/domains/event/model/dto"
	"meetbook/internal/domains/event/service"
	"meetbook/shared/constant"
	gDto "meetbook/shared/dto"
	"meetbook/shared/validator"
	"meetbook/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Event
	otel    otel.Otel
}

func New(service service.Event, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router registers the event routes on the /events group shared with the event scoped handlers.
func (handler *Handler) Router(routerGroup chi.Router) {
	routerGroup.Post("/", handler.CreateEvent)
	routerGroup.Get("/", handler.GetEvents)
	routerGroup.Get("/{id}", handler.GetEventByID)
	routerGroup.Patch("/{id}", handler.UpdateEvent)
	routerGroup.Delete("/{id}", handler.DeleteEvent)
}

// CreateEvent handles the creation of a new event.
// @Summary Create a new event
// @Tags Event
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Create Event Request"
// @Success 201 {object} response.Data[dto.EventResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/events [post]
func (handler *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateEvent")
	defer scope.End()

	req := dto.CreateEventRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	event, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create event")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, event)
}

// GetEvents lists events.
// @Summary Get all events
// @Tags Event
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param title query string false "Search by title"
// @Success 200 {object} response.Data[dto.GetEventsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/events [get]
func (handler *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEvents")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.TableName, model.SortableFields...)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if title := r.URL.Query().Get(model.FieldTitle); title != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTitle,
			Operator: gDto.FilterOperatorLike,
			Value:    title,
			Table:    model.TableName,
		})
	}

	events, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get events")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, events)
}

// GetEventByID retrieves an event.
// @Summary Get an event by ID
// @Tags Event
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Data[dto.EventResponse]
// @Failure 404 {object} response.Error
// @Router /v1/events/{id} [get]
func (handler *Handler) GetEventByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEventByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	event, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get event by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, event)
}

// UpdateEvent updates an event.
// @Summary Update an event by ID
// @Tags Event
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Update Event Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/events/{id} [patch]
func (handler *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateEvent")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateEventRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update event")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Event updated successfully")
}

// DeleteEvent deletes an event with its attendees and slots.
// @Summary Delete an event by ID
// @Tags Event
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/events/{id} [delete]
func (handler *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteEvent")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete event")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Event deleted successfully")
}
