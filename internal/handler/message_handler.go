/*
Package handler provides the HTTP handlers and routing setup for the DuoChat server.

This file contains the REST message surface. Sending and marking seen run
through the same pipeline and coordinator as the realtime path, so both
surfaces share persistence ordering and fan-out behavior.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"duochat/internal/app/chat"
	"duochat/internal/app/model"
	"duochat/internal/pkg/errs"
	"duochat/internal/pkg/req"
	"duochat/internal/pkg/resp"
)

type SendMessageInput struct {
	ChatID     *uuid.UUID        `json:"chatId,omitempty"`
	ReceiverID uuid.UUID         `json:"receiverId"`
	Content    string            `json:"content,omitempty"`
	Kind       model.MessageKind `json:"kind,omitempty"`
	FileURL    string            `json:"fileUrl,omitempty"`
}

// HandleSendMessage persists and fans out one message from the caller.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input SendMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.ReceiverID == uuid.Nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		msg, err := deps.Pipeline.Send(r.Context(), chat.SendParams{
			ChatID:     input.ChatID,
			SenderID:   userID,
			ReceiverID: input.ReceiverID,
			Content:    input.Content,
			Kind:       input.Kind,
			FileURL:    input.FileURL,
		})
		if err != nil {
			respondCoreError(w, r, err)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"message": msg})
	}
}

// HandleListMessages returns all messages of a chat the caller participates in.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
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

		messages, err := deps.Store.ListMessagesByChat(r.Context(), chatID)
		if err != nil {
			respondCoreError(w, r, err)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"messages": messages})
	}
}

// HandleMarkSeen bulk-marks the peer's messages in the chat as seen by the
// caller and notifies the peer's live connection.
func HandleMarkSeen(deps *AppDeps) http.HandlerFunc {
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

		peerID, ok := found.PeerOf(userID)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotChatMember))
			return
		}

		if err := deps.Seen.MarkSeen(r.Context(), chatID, userID, peerID); err != nil {
			respondCoreError(w, r, err)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"chatId": chatID})
	}
}
