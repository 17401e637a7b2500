/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: Chat and Message Business Logic Errors
const (
	// ErrChatNotFound indicates that the referenced chat does not exist.
	ErrChatNotFound = 2101

	// ErrChatParticipantsInvalid indicates that a direct chat was requested with
	// a missing participant or with the same user on both sides.
	ErrChatParticipantsInvalid = 2102

	// ErrNotChatMember indicates that the requesting user is not a participant of the chat.
	ErrNotChatMember = 2103

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrMessageKindInvalid indicates an unsupported message kind (not text/image/file).
	ErrMessageKindInvalid = 2202

	// ErrMessageEmpty indicates a text message with no content and no attachment.
	ErrMessageEmpty = 2203

	// ErrAttachmentKeyInvalid indicates that the attachment storage key failed validation.
	ErrAttachmentKeyInvalid = 2204

	// ErrFileSizeTooLarge indicates that the attachment exceeded the size limit.
	ErrFileSizeTooLarge = 2205
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates a missing or invalid identity token.
	ErrUnauthorized = 3001

	// ErrInvalidCredentials indicates a failed email/password check.
	ErrInvalidCredentials = 3002

	// ErrUserAlreadyExists indicates that the email is already registered.
	ErrUserAlreadyExists = 3003

	// ErrUserNotFound indicates that the referenced user account does not exist.
	ErrUserNotFound = 3004

	// ErrInvalidEmail indicates that the supplied email failed validation.
	ErrInvalidEmail = 3005

	// ErrInvalidPassword indicates that the supplied password failed validation.
	ErrInvalidPassword = 3006

	// ErrInvalidName indicates that the supplied display name failed validation.
	ErrInvalidName = 3007
)

// 4xxx: Persistence Errors
const (
	// ErrPersistence indicates that a durable-store write or read failed.
	// The failed operation is aborted; nothing is partially applied.
	ErrPersistence = 4001
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates a blob-storage operation failure.
	ErrFileStorageFailed = 5001
)
