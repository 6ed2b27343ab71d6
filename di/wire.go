//go:build wireinject
// +build wireinject

package di

import (
	"meetbook/config"
	"meetbook/infras/kafka"
	"meetbook/infras/metrics"
	"meetbook/infras/otel"
	"meetbook/infras/postgres"
	"meetbook/infras/redis"
	"meetbook/infras/s3"
	"meetbook/shared/cache"
	"meetbook/transport/http"
	"meetbook/transport/http/middleware"
	"meetbook/transport/http/router"

	gRepo "meetbook/shared/repository"

	attendeeRepository "meetbook/internal/domains/attendee/repository"
	attendeeService "meetbook/internal/domains/attendee/service"
	eventRepository "meetbook/internal/domains/event/repository"
	eventService "meetbook/internal/domains/event/service"
	partnerRequestRepository "meetbook/internal/domains/partnerrequest/repository"
	partnerRequestService "meetbook/internal/domains/partnerrequest/service"
	rosterService "meetbook/internal/domains/roster/service"
	slotRepository "meetbook/internal/domains/slot/repository"
	slotService "meetbook/internal/domains/slot/service"

	attendeeHandler "meetbook/internal/handlers/attendee"
	eventHandler "meetbook/internal/handlers/event"
	partnerRequestHandler "meetbook/internal/handlers/partnerrequest"
	rosterHandler "meetbook/internal/handlers/roster"
	slotHandler "meetbook/internal/handlers/slot"

	"github.com/google/wire"
	goRedis "github.com/redis/go-redis/v9"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(gRepo.Transactor), new(*postgres.Connection)),
	otel.New,
	redis.New,
	wire.Bind(new(goRedis.UniversalClient), new(*goRedis.Client)),
	s3.New,
	kafka.New,
	metrics.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var eventDomain = wire.NewSet(
	eventRepository.New,
	eventService.New,
)

var attendeeDomain = wire.NewSet(
	attendeeRepository.New,
	attendeeService.New,
)

var slotDomain = wire.NewSet(
	slotRepository.New,
	slotService.New,
)

var rosterDomain = wire.NewSet(
	rosterService.New,
)

var partnerRequestDomain = wire.NewSet(
	partnerRequestRepository.New,
	partnerRequestService.New,
)

var domains = wire.NewSet(
	eventDomain,
	attendeeDomain,
	slotDomain,
	rosterDomain,
	partnerRequestDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	eventHandler.New,
	attendeeHandler.New,
	slotHandler.New,
	rosterHandler.New,
	partnerRequestHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
