package handler

import (
	"net/http"

	"github.com/google/uuid"

	"duochat/internal/pkg/auth/jwt"
	"duochat/internal/pkg/errs"
)

// requireUser extracts the authenticated user id from the request context.
// Returns ErrUnauthorized when the request is anonymous or carries a
// malformed identity.
func requireUser(r *http.Request) (uuid.UUID, *errs.CustomError) {
	identity := jwt.GetPayloadFromContext(r)
	if identity == nil {
		return uuid.Nil, errs.NewError(errs.ErrUnauthorized)
	}

	userID, err := uuid.Parse(identity.ID)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, errs.NewError(errs.ErrUnauthorized)
	}

	return userID, nil
}
