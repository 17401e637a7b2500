/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large."},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Chat and Message Business Logic Errors
	ErrChatNotFound:            {Code: ErrChatNotFound, Message: "Chat not found.", Status: http.StatusNotFound},
	ErrChatParticipantsInvalid: {Code: ErrChatParticipantsInvalid, Message: "A direct chat needs two distinct participants."},
	ErrNotChatMember:           {Code: ErrNotChatMember, Message: "You are not a participant of this chat.", Status: http.StatusForbidden},
	ErrMessageContentTooLong:   {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrMessageKindInvalid:      {Code: ErrMessageKindInvalid, Message: "Unsupported message kind."},
	ErrMessageEmpty:            {Code: ErrMessageEmpty, Message: "Message has no content."},
	ErrAttachmentKeyInvalid:    {Code: ErrAttachmentKeyInvalid, Message: "Invalid attachment."},
	ErrFileSizeTooLarge:        {Code: ErrFileSizeTooLarge, Message: "File is too large."},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect email or password."},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "This email is already registered."},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Message: "Invalid email address."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Invalid password."},
	ErrInvalidName:        {Code: ErrInvalidName, Message: "Invalid display name."},

	// 4xxx: Persistence Errors
	ErrPersistence: {Code: ErrPersistence, Message: "Could not save your changes. Please try again.", Status: http.StatusInternalServerError},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again."},
}
