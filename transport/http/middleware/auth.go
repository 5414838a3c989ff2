package middleware

import (
	"crypto/subtle"
	"net/http"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/shared"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/transport/http/response"
)

const (
	msgStaffOnly = "this operation is reserved for hotel staff"
)

// Auth resolves who is calling. Requests without a key act as guests, requests with the configured key act as staff.
type Auth interface {
	APIKey(http.Handler) http.Handler
	Staff(http.Handler) http.Handler
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

func (m *authImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)

		if apiKey == constant.Empty {
			scope.SetAttribute("http.source", constant.ActorGuest)
			scope.End()
			next.ServeHTTP(writer, request.WithContext(shared.WithActor(ctx, constant.ActorGuest)))

			return
		}

		scope.SetAttribute("http.source", constant.ActorStaff)

		if m.cfg.App.APIKey == constant.Empty || subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.cfg.App.APIKey)) != 1 {
			err := failure.ForbiddenError

			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		scope.End()
		next.ServeHTTP(writer, request.WithContext(shared.WithActor(ctx, constant.ActorStaff)))
	})
}

// Staff rejects every caller APIKey did not resolve to staff.
func (m *authImpl) Staff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if shared.ActorFromContext(request.Context()) != constant.ActorStaff {
			response.WithError(writer, failure.Forbidden(msgStaffOnly))

			return
		}

		next.ServeHTTP(writer, request)
	})
}
