package internal

import (
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"golang.org/x/net/context"

	"github.com/derWhity/eventcal/internal/ctxhelper"
)

// EnsureUserLoggedIn is a middleware that checks if there is a valid user session for the current call
func EnsureUserLoggedIn(next endpoint.Endpoint) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		if ctxhelper.User(ctx) == nil {
			ctxhelper.Logger(ctx).Debug("Rejecting call without a logged-in user")
			return nil, MakeError(
				http.StatusForbidden,
				ErrCodeNotLoggedIn,
				"This function needs a logged-in user",
			)
		}
		return next(ctx, request)
	}
}
