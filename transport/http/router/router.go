package router

import (
	"meetbook/internal/handlers/attendee"
	"meetbook/internal/handlers/event"
	"meetbook/internal/handlers/partnerrequest"
	"meetbook/internal/handlers/roster"
	"meetbook/internal/handlers/slot"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Event    event.Handler
	Attendee attendee.Handler
	Slot     slot.Handler
	Roster   roster.Handler

	PartnerRequest partnerrequest.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		// chi allows a single mount per prefix, so every /events/{id}/... route shares one group.
		routerGroup.Route("/events", func(events chi.Router) {
			r.DomainHandlers.Event.Router(events)
			r.DomainHandlers.Attendee.EventRouter(events)
			r.DomainHandlers.Slot.EventRouter(events)
			r.DomainHandlers.Roster.EventRouter(events)
		})

		r.DomainHandlers.Attendee.Router(routerGroup)
		r.DomainHandlers.Slot.Router(routerGroup)
		r.DomainHandlers.PartnerRequest.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
