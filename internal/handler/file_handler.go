/*
Package handler provides the HTTP handlers and routing setup for the DuoChat server.

This file contains the handlers that issue presigned URLs for message
attachments. The client uploads directly to blob storage and then sends the
message with the resulting file URL.
*/
package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"duochat/internal/app/storage"
	"duochat/internal/pkg/errs"
	"duochat/internal/pkg/logx"
	"duochat/internal/pkg/req"
	"duochat/internal/pkg/resp"
)

type PresignUploadInput struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignUpload validates the attachment and returns a presigned PUT URL.
func HandlePresignUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input PresignUploadInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidateFileSize(input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if customErr := storage.ValidateFileType(input.FileName, input.MimeType); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := fmt.Sprintf("attachments/%s/%s%s",
			userID.String(), uuid.New().String(), strings.ToLower(filepath.Ext(input.FileName)))

		url, err := deps.StorageService.PresignUpload(
			r.Context(), key, input.MimeType, input.FileSize, storage.PresignedURLDuration)
		if err != nil {
			logx.Error(err, "presign upload failed", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"key":       key,
			"uploadUrl": url,
		})
	}
}

// HandlePresignDownload returns a presigned GET URL for a stored attachment.
func HandlePresignDownload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, customErr := requireUser(r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := r.URL.Query().Get("key")
		if key == "" || !strings.HasPrefix(key, "attachments/") {
			resp.RespondError(w, r, errs.NewError(errs.ErrAttachmentKeyInvalid))
			return
		}

		url, err := deps.StorageService.PresignDownload(r.Context(), key, storage.PresignedURLDuration)
		if err != nil {
			logx.Error(err, "presign download failed", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"key":         key,
			"downloadUrl": url,
		})
	}
}
