package handler

import (
	"errors"
	"net/http"

	"duochat/internal/app/chat"
	"duochat/internal/app/db"
	"duochat/internal/app/store"
	"duochat/internal/pkg/errs"
	"duochat/internal/pkg/logx"
	"duochat/internal/pkg/resp"
)

// respondCoreError maps errors surfaced by the core and the store onto the
// standardized JSON error responses.
func respondCoreError(w http.ResponseWriter, r *http.Request, err error) {
	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		resp.RespondError(w, r, customErr)
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		resp.RespondError(w, r, errs.NewError(errs.ErrChatNotFound))
	case errors.Is(err, chat.ErrSameParticipant):
		resp.RespondError(w, r, errs.NewError(errs.ErrChatParticipantsInvalid))
	case db.IsUniqueViolation(err):
		resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
	default:
		logx.Error(err, "Unhandled error in request handler")
		resp.RespondError(w, r, errs.NewError(errs.ErrPersistence))
	}
}
