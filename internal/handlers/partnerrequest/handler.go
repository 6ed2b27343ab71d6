package partnerrequest

import (
	"io"
	"meetbook/infras/otel"
	"meetbook/internal/domains/partnerrequest/model"
	"meetbook/internal/domains/partnerrequest/model/dto"
	"meetbook/internal/domains/partnerrequest/service"
	"meetbook/shared/constant"
	gDto "meetbook/shared/dto"
	"meetbook/shared/validator"
	"meetbook/transport/http/response"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.PartnerRequest
	otel    otel.Otel
}

func New(service service.PartnerRequest, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/partner-requests", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePartnerRequest)
		routerGroup.Get("/", handler.GetPartnerRequests)
		routerGroup.Get("/{id}", handler.GetPartnerRequestByID)
		routerGroup.Delete("/{id}", handler.DeletePartnerRequest)
		routerGroup.Patch("/{id}/partners/{partnerID}/approve", handler.ApprovePartner)
		routerGroup.Patch("/{id}/partners/{partnerID}/decline", handler.DeclinePartner)
	})
}

// CreatePartnerRequest asks a set of company partners to meet a delegate.
// @Summary Create a partner request
// @Tags PartnerRequest
// @Accept json
// @Produce json
// @Param request body dto.CreatePartnerRequestRequest true "Create Partner Request"
// @Success 201 {object} response.Data[dto.PartnerRequestResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/partner-requests [post]
func (handler *Handler) CreatePartnerRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePartnerRequest")
	defer scope.End()

	req := dto.CreatePartnerRequestRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create partner request")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetPartnerRequests lists partner requests.
// @Summary Get partner requests
// @Tags PartnerRequest
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param event_id query string false "Filter by event"
// @Param delegate_id query string false "Filter by delegate"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.GetPartnerRequestsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/partner-requests [get]
func (handler *Handler) GetPartnerRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPartnerRequests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.TableName, model.SortableFields...)

	filterGroup, err := listFilter(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get partner requests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetPartnerRequestByID retrieves a partner request.
// @Summary Get a partner request by ID
// @Tags PartnerRequest
// @Produce json
// @Param id path string true "Partner request ID"
// @Success 200 {object} response.Data[dto.PartnerRequestResponse]
// @Failure 404 {object} response.Error
// @Router /v1/partner-requests/{id} [get]
func (handler *Handler) GetPartnerRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPartnerRequestByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get partner request")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// DeletePartnerRequest deletes a partner request. Slots booked by its approvals stay.
// @Summary Delete a partner request by ID
// @Tags PartnerRequest
// @Produce json
// @Param id path string true "Partner request ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/partner-requests/{id} [delete]
func (handler *Handler) DeletePartnerRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePartnerRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete partner request")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Partner request deleted successfully")
}

// ApprovePartner approves one partner and optionally books the meeting.
// @Summary Approve a partner
// @Tags PartnerRequest
// @Accept json
// @Produce json
// @Param id path string true "Partner request ID"
// @Param partnerID path string true "Partner attendee ID"
// @Param request body dto.ApprovePartnerRequest false "Approve Partner Request"
// @Success 200 {object} response.Data[dto.DecisionResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/partner-requests/{id}/partners/{partnerID}/approve [patch]
func (handler *Handler) ApprovePartner(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApprovePartner")
	defer scope.End()

	id, partnerID, err := decisionParams(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.ApprovePartnerRequest{}
	if err := validateOptional(r.Body, r.ContentLength, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Approve(ctx, req, id, partnerID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve partner")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// DeclinePartner declines one partner.
// @Summary Decline a partner
// @Tags PartnerRequest
// @Accept json
// @Produce json
// @Param id path string true "Partner request ID"
// @Param partnerID path string true "Partner attendee ID"
// @Param request body dto.DeclinePartnerRequest false "Decline Partner Request"
// @Success 200 {object} response.Data[dto.DecisionResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/partner-requests/{id}/partners/{partnerID}/decline [patch]
func (handler *Handler) DeclinePartner(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeclinePartner")
	defer scope.End()

	id, partnerID, err := decisionParams(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.DeclinePartnerRequest{}
	if err := validateOptional(r.Body, r.ContentLength, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Decline(ctx, req, id, partnerID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decline partner")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

func decisionParams(r *http.Request) (string, string, error) {
	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		return "", "", err //nolint:wrapcheck
	}

	partnerID := chi.URLParam(r, constant.RequestParamPartnerID)
	if err := validator.ValidateID(constant.RequestParamPartnerID, partnerID); err != nil {
		return "", "", err //nolint:wrapcheck
	}

	return id, partnerID, nil
}

// validateOptional accepts an empty body as the zero request.
func validateOptional[T any](body io.Reader, length int64, req *T) error {
	if length == 0 {
		return validator.ValidateStruct(req) //nolint:wrapcheck
	}

	return validator.Validate(body, req) //nolint:wrapcheck
}

func listFilter(r *http.Request) (gDto.FilterGroup, error) {
	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	query := r.URL.Query()

	for _, field := range []string{model.FieldEventID, model.FieldDelegateID} {
		value := query.Get(field)
		if value == constant.Empty {
			continue
		}

		if err := validator.ValidateID(field, value); err != nil {
			return filterGroup, err //nolint:wrapcheck
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field: field, Operator: gDto.FilterOperatorEq, Value: value, Table: model.TableName,
		})
	}

	if status := query.Get(model.FieldStatus); status != constant.Empty {
		if err := validator.ValidateVar(model.FieldStatus, status, "oneof="+strings.Join(model.Statuses, " ")); err != nil {
			return filterGroup, err //nolint:wrapcheck
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: status, Table: model.TableName,
		})
	}

	return filterGroup, nil
}
