package attendee

import (
	"meetbook/infras/otel"
	"meetbook/internal/domains/attendee/model"
	"meetbook/internal/domains/attendee/model/dto"
	"meetbook/internal/domains/attendee/service"
	"meetbook/shared"
	"meetbook/shared/constant"
	gDto "meetbook/shared/dto"
	"meetbook/shared/validator"
	"meetbook/transport/http/middleware"
	"meetbook/transport/http/response"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const queryParamSearch = "search"

type Handler struct {
	service service.Attendee
	auth    middleware.Auth
	otel    otel.Otel
}

func New(service service.Attendee, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/attendees", func(routerGroup chi.Router) {
		routerGroup.With(handler.auth.APIKey).Patch("/status", handler.UpdateAttendeeStatusByEmail)
		routerGroup.Get("/{id}", handler.GetAttendeeByID)
		routerGroup.Patch("/{id}", handler.UpdateAttendee)
		routerGroup.Delete("/{id}", handler.DeleteAttendee)
	})
}

// EventRouter registers the attendee routes nested under /events/{id}.
func (handler *Handler) EventRouter(routerGroup chi.Router) {
	routerGroup.Get("/{id}/attendees", handler.GetAttendees)
	routerGroup.Delete("/{id}/attendees", handler.DeleteAttendees)
}

// GetAttendees lists the attendees of an event.
// @Summary Get attendees of an event
// @Tags Attendee
// @Produce json
// @Param id path string true "Event ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status, comma separated"
// @Param company query string false "Filter by company"
// @Param gift_collected query bool false "Filter by gift collection"
// @Param search query string false "Search by email or name"
// @Success 200 {object} response.Data[dto.GetAttendeesResponse]
// @Failure 400 {object} response.Error
// @Router /v1/events/{id}/attendees [get]
func (handler *Handler) GetAttendees(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAttendees")
	defer scope.End()

	eventID := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, eventID); err != nil {
		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.TableName, model.SortableFields...)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldEventID, Operator: gDto.FilterOperatorEq, Value: eventID, Table: model.TableName},
		},
	}

	query := r.URL.Query()

	statuses := splitList(query.Get(model.FieldStatus))
	if err := validator.ValidateVar(model.FieldStatus, statuses, "dive,oneof="+strings.Join(model.Statuses, " ")); err != nil {
		response.WithError(w, err)

		return
	}

	if len(statuses) > 0 {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: statuses, Table: model.TableName,
		})
	}

	if company := query.Get(model.FieldCompany); company != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field: model.FieldCompany, Operator: gDto.FilterOperatorIEq, Value: company, Table: model.TableName,
		})
	}

	if giftCollected := shared.ConvertStringToBool(query.Get(model.FieldGiftCollected)); giftCollected != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field: model.FieldGiftCollected, Operator: gDto.FilterOperatorEq, Value: *giftCollected, Table: model.TableName,
		})
	}

	if search := strings.TrimSpace(query.Get(queryParamSearch)); search != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, searchFilter(search))
	}

	attendees, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get attendees")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, attendees)
}

// DeleteAttendees removes every attendee of an event.
// @Summary Delete all attendees of an event
// @Tags Attendee
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Data[dto.DeleteAttendeesResponse]
// @Failure 404 {object} response.Error
// @Router /v1/events/{id}/attendees [delete]
func (handler *Handler) DeleteAttendees(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAttendees")
	defer scope.End()

	eventID := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, eventID); err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.DeleteAllByEvent(ctx, eventID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete attendees")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetAttendeeByID retrieves an attendee.
// @Summary Get an attendee by ID
// @Tags Attendee
// @Produce json
// @Param id path string true "Attendee ID"
// @Success 200 {object} response.Data[dto.AttendeeResponse]
// @Failure 404 {object} response.Error
// @Router /v1/attendees/{id} [get]
func (handler *Handler) GetAttendeeByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAttendeeByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	attendee, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get attendee by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, attendee)
}

// UpdateAttendee updates an attendee.
// @Summary Update an attendee by ID
// @Tags Attendee
// @Accept json
// @Produce json
// @Param id path string true "Attendee ID"
// @Param request body dto.UpdateAttendeeRequest true "Update Attendee Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/attendees/{id} [patch]
func (handler *Handler) UpdateAttendee(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAttendee")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateAttendeeRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update attendee")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Attendee updated successfully")
}

// DeleteAttendee deletes an attendee with its slots.
// @Summary Delete an attendee by ID
// @Tags Attendee
// @Produce json
// @Param id path string true "Attendee ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/attendees/{id} [delete]
func (handler *Handler) DeleteAttendee(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAttendee")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete attendee")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Attendee deleted successfully")
}

// UpdateAttendeeStatusByEmail sets the status of an attendee found by email.
// @Summary Update attendee status by email
// @Tags Attendee
// @Accept json
// @Produce json
// @Param X-API-Key header string true "Internal API key"
// @Param request body dto.UpdateStatusByEmailRequest true "Update Status Request"
// @Success 200 {object} response.Data[dto.AttendeeStatusResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/attendees/status [patch]
func (handler *Handler) UpdateAttendeeStatusByEmail(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAttendeeStatusByEmail")
	defer scope.End()

	req := dto.UpdateStatusByEmailRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UpdateStatusByEmail(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update attendee status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// searchFilter matches the term against email and both name columns.
func searchFilter(term string) gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorOr}

	for _, field := range []string{model.FieldEmail, model.FieldFirstName, model.FieldLastName} {
		group.Filters = append(group.Filters, gDto.Filter{
			ArgName:  queryParamSearch + "_" + field,
			Field:    field,
			Operator: gDto.FilterOperatorLike,
			Value:    term,
			Table:    model.TableName,
		})
	}

	return group
}

func splitList(raw string) []string {
	var values []string

	for value := range strings.SplitSeq(raw, ",") {
		if value = strings.TrimSpace(value); value != constant.Empty {
			values = append(values, value)
		}
	}

	return values
}
