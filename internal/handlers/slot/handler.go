package slot

import (
	"meetbook/infras/otel"
	"meetbook/internal/domains/slot/model/dto"
	"meetbook/internal/domains/slot/service"
	"meetbook/shared/constant"
	"meetbook/shared/failure"
	"meetbook/shared/validator"
	"meetbook/transport/http/response"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Slot
	otel    otel.Otel
}

func New(service service.Slot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/slots", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.BookSlot)
		routerGroup.Delete("/", handler.DeleteSlot)
		routerGroup.Patch("/{id}/completion", handler.ToggleCompletion)
	})
}

// EventRouter registers the slot read routes nested under /events/{id}.
func (handler *Handler) EventRouter(routerGroup chi.Router) {
	routerGroup.Get("/{id}/slots", handler.GetSlots)
	routerGroup.Get("/{id}/slots/companies", handler.GetCompanyCounts)
	routerGroup.Get("/{id}/slots/companies/{company}", handler.GetCompanySlots)
}

// BookSlot books an attendee with a company at a time slot.
// @Summary Book a slot
// @Tags Slot
// @Accept json
// @Produce json
// @Param request body dto.BookSlotRequest true "Book Slot Request"
// @Success 201 {object} response.Data[dto.SlotResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/slots [post]
func (handler *Handler) BookSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BookSlot")
	defer scope.End()

	req := dto.BookSlotRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	slot, err := handler.service.Book(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to book slot")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, slot)
}

// DeleteSlot cancels a booking.
// @Summary Delete a slot
// @Tags Slot
// @Accept json
// @Produce json
// @Param request body dto.DeleteSlotRequest true "Delete Slot Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/slots [delete]
func (handler *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteSlot")
	defer scope.End()

	req := dto.DeleteSlotRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete slot")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Slot deleted successfully")
}

// ToggleCompletion marks a meeting as held or not.
// @Summary Toggle slot completion
// @Tags Slot
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param request body dto.ToggleCompletionRequest true "Completion Request"
// @Success 200 {object} response.Data[dto.SlotResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/slots/{id}/completion [patch]
func (handler *Handler) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleCompletion")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.ToggleCompletionRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	slot, err := handler.service.ToggleCompletion(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle slot completion")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slot)
}

// GetSlots lists the booked slots of an event.
// @Summary Get slots of an event
// @Tags Slot
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Data[dto.GetSlotsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/events/{id}/slots [get]
func (handler *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	eventID := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, eventID); err != nil {
		response.WithError(w, err)

		return
	}

	slots, err := handler.service.GetAll(ctx, eventID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slots)
}

// GetCompanyCounts counts the booked slots per company.
// @Summary Get slot counts per company
// @Tags Slot
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Data[dto.GetCompanyCountsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/events/{id}/slots/companies [get]
func (handler *Handler) GetCompanyCounts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCompanyCounts")
	defer scope.End()

	eventID := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, eventID); err != nil {
		response.WithError(w, err)

		return
	}

	counts, err := handler.service.CompanyCounts(ctx, eventID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to count company slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, counts)
}

// GetCompanySlots lists a company's slots with the attendee of each.
// @Summary Get slots of a company
// @Tags Slot
// @Produce json
// @Param id path string true "Event ID"
// @Param company path string true "Company name"
// @Success 200 {object} response.Data[dto.GetCompanySlotsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/events/{id}/slots/companies/{company} [get]
func (handler *Handler) GetCompanySlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCompanySlots")
	defer scope.End()

	eventID := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, eventID); err != nil {
		response.WithError(w, err)

		return
	}

	company, err := url.PathUnescape(chi.URLParam(r, constant.RequestParamCompany))
	if err != nil {
		response.WithError(w, failure.BadRequest(err))

		return
	}

	slots, err := handler.service.GetByCompany(ctx, eventID, company)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get company slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slots)
}
