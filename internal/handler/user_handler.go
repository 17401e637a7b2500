/*
Package handler provides the HTTP handlers and routing setup for the DuoChat server.

This file contains the handlers for user listing and profile management.
*/
package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"duochat/internal/app/storage"
	"duochat/internal/pkg/errs"
	"duochat/internal/pkg/logx"
	"duochat/internal/pkg/req"
	"duochat/internal/pkg/resp"
)

// HandleListUsers returns every account, for the contact sidebar.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, customErr := requireUser(r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		users, err := deps.Store.ListUsers(r.Context())
		if err != nil {
			respondCoreError(w, r, err)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"users": users})
	}
}

// HandleGetMe returns the authenticated user's own profile.
func HandleGetMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, err := deps.Store.GetUserByID(r.Context(), userID)
		if err != nil {
			respondCoreError(w, r, err)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"user": user})
	}
}

type UpdateProfileInput struct {
	Name string `json:"name"`
}

// HandleUpdateProfile updates the display name of the authenticated user.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input UpdateProfileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Name = strings.TrimSpace(input.Name)
		nameLen := utf8.RuneCountInString(input.Name)
		if nameLen < 1 || nameLen > 64 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidName))
			return
		}

		user, err := deps.Store.UpdateUserProfile(r.Context(), userID, input.Name, "")
		if err != nil {
			respondCoreError(w, r, err)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"user": user})
	}
}

// HandleUploadAvatar accepts a multipart avatar image, streams it to blob
// storage, and records the resulting URL on the profile.
func HandleUploadAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("avatar")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		defer file.Close()

		mimeType := header.Header.Get("Content-Type")
		if !storage.IsImageMIME(mimeType) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		if customErr := storage.ValidateFileSize(header.Size); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := fmt.Sprintf("avatars/%s%s", uuid.New().String(), filepath.Ext(header.Filename))

		location, err := deps.StorageService.Upload(r.Context(), key, mimeType, file)
		if err != nil {
			logx.Error(err, "avatar upload failed", "user_id", userID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		user, err := deps.Store.UpdateUserProfile(r.Context(), userID, "", location)
		if err != nil {
			respondCoreError(w, r, err)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"user": user})
	}
}
