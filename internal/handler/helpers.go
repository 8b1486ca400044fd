package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kwakhanya/internal/pkg/auth/jwt"
	"kwakhanya/internal/pkg/errs"
)

// requireAuth returns the authenticated payload, or an error when the request
// carries no valid identity.
func requireAuth(r *http.Request) (*jwt.Payload, *errs.CustomError) {
	payload := jwt.GetPayloadFromContext(r)
	if payload == nil {
		return nil, errs.NewError(errs.ErrUnauthorized)
	}
	return payload, nil
}

// requireRole returns the authenticated payload only when it carries the
// given role.
func requireRole(r *http.Request, role string) (*jwt.Payload, *errs.CustomError) {
	payload, customErr := requireAuth(r)
	if customErr != nil {
		return nil, customErr
	}
	if payload.Role != role {
		return nil, errs.NewError(errs.ErrForbidden)
	}
	return payload, nil
}

// urlParamID parses the named chi URL parameter as a positive int32 id.
func urlParamID(r *http.Request, name string) (int32, *errs.CustomError) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, errs.NewError(errs.ErrInvalidParams)
	}
	return int32(id), nil
}
