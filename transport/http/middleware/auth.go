package middleware

import (
	"crypto/subtle"
	"meetbook/config"
	"meetbook/infras/otel"
	"meetbook/shared/constant"
	"meetbook/shared/failure"
	"meetbook/transport/http/response"
	"net/http"
)

// Auth guards internal endpoints.
type Auth interface {
	APIKey(http.Handler) http.Handler
}

type authImpl struct {
	otel otel.Otel
	cfg  *config.Config
}

func NewAuthMiddleware(otel otel.Otel, cfg *config.Config) Auth {
	return &authImpl{
		otel: otel,
		cfg:  cfg,
	}
}

// APIKey rejects requests whose X-API-Key does not match the configured key.
// A service without a configured key rejects every internal call.
func (m *authImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		expected := m.cfg.App.APIKey

		if apiKey == constant.Empty {
			err := failure.Unauthorized("missing api key")

			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		if expected == constant.Empty || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			err := failure.Unauthorized("invalid api key")

			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.SetAttribute("http.source", "internal")
		scope.End()

		next.ServeHTTP(writer, request)
	})
}
