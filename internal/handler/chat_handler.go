/*
Package handler provides the HTTP handlers and routing setup for the DuoChat server.

This file contains the handlers for direct-chat creation and listing. Chat
creation shares the ChatSessionResolver with the realtime path, so the
get-or-create semantics are identical on both surfaces.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"duochat/internal/app/chat"
	"duochat/internal/pkg/errs"
	"duochat/internal/pkg/req"
	"duochat/internal/pkg/resp"
)

type CreateChatInput struct {
	UserID uuid.UUID `json:"userId"`
}

// HandleCreateChat resolves or creates the direct chat between the caller and
// the given peer. When a new chat is created, both participants' live
// connections receive a chat-created notification.
func HandleCreateChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input CreateChatInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resolved, created, err := deps.Resolver.GetOrCreate(r.Context(), userID, input.UserID)
		if err != nil {
			respondCoreError(w, r, err)
			return
		}

		if created {
			notice := chat.ChatCreatedNotice{ChatID: resolved.ID}
			deps.Hub.Send(resolved.UserA, chat.EventChatCreated, notice)
			deps.Hub.Send(resolved.UserB, chat.EventChatCreated, notice)
		}

		resp.RespondSuccess(w, r, map[string]any{
			"chat":    resolved,
			"created": created,
		})
	}
}

// HandleListChats returns the caller's chats, most recently active first.
func HandleListChats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		chats, err := deps.Store.ListChatsForUser(r.Context(), userID)
		if err != nil {
			respondCoreError(w, r, err)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"chats": chats})
	}
}

// HandleGetChat returns a single chat the caller participates in.
func HandleGetChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		chatID, err := uuid.Parse(chi.URLParam(r, "chatID"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		found, err := deps.Store.GetChatByID(r.Context(), chatID)
		if err != nil {
			respondCoreError(w, r, err)
			return
		}

		if !found.HasParticipant(userID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotChatMember))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"chat": found})
	}
}
