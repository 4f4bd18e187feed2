/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both inside the server and
in the payloads sent to clients, over REST envelopes and WebSocket error messages alike.
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

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007

	// ErrInvalidMessageFormat indicates that a WebSocket frame could not be decoded.
	ErrInvalidMessageFormat = 1008
)

// 2xxx: Collaboration and Content Business Logic Errors
const (
	// ErrUnsupportedMessageType indicates that the message type is unknown or not valid in the current room.
	ErrUnsupportedMessageType = 2101

	// ErrMessageFieldMissing indicates that a message lacks a field its type requires.
	ErrMessageFieldMissing = 2102

	// ErrRoomAccessDenied indicates that the sender addressed a room it is not connected to.
	ErrRoomAccessDenied = 2103

	// ErrChatDisabled indicates that the global chat is switched off for non-admin users.
	ErrChatDisabled = 2104

	// ErrMessageNotFound indicates that a chat message id does not exist.
	ErrMessageNotFound = 2105

	// ErrMessageContentTooLong indicates that the user's message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrMessageEmpty indicates that a chat message had no text.
	ErrMessageEmpty = 2202

	// ErrTeamNotFound indicates that the team does not exist.
	ErrTeamNotFound = 2301

	// ErrNotTeamMember indicates that the caller is not a member of the team.
	ErrNotTeamMember = 2302

	// ErrAlreadyTeamMember indicates that the user to add is already in the team.
	ErrAlreadyTeamMember = 2303

	// ErrTeamPermissionDenied indicates that only the team creator (or an admin) may perform the action.
	ErrTeamPermissionDenied = 2304

	// ErrTeamNameInvalid indicates that the team name is empty or too long.
	ErrTeamNameInvalid = 2305

	// ErrFileNotFound indicates that the file metadata or its stored object is missing.
	ErrFileNotFound = 2401

	// ErrFileAccessDenied indicates that the caller may not read the file.
	ErrFileAccessDenied = 2402

	// ErrFileSizeTooLarge indicates that the uploaded file exceeds the configured limit.
	ErrFileSizeTooLarge = 2403

	// ErrFileNotEditable indicates that the file is not a team text file and cannot be edited live.
	ErrFileNotEditable = 2404
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrPowChallengeRequired indicates the client must complete a Proof-of-Work challenge first.
	ErrPowChallengeRequired = 3001

	// ErrPowChallengeInvalid indicates that the PoW proof provided by the client is invalid or incorrect.
	ErrPowChallengeInvalid = 3002

	// ErrAlreadyLoggedIn indicates that an authenticated user called register or login.
	ErrAlreadyLoggedIn = 3005

	// ErrInvalidUsername indicates that the username does not match the allowed pattern.
	ErrInvalidUsername = 3006

	// ErrInvalidPassword indicates that the password length is out of bounds.
	ErrInvalidPassword = 3007

	// ErrUserAlreadyExists indicates that the username is taken.
	ErrUserAlreadyExists = 3008

	// ErrInvalidCredentials indicates a username/password mismatch.
	ErrInvalidCredentials = 3009

	// ErrUserNotFound indicates that the referenced account does not exist.
	ErrUserNotFound = 3010

	// ErrUnauthorized indicates a missing or invalid identity token.
	ErrUnauthorized = 3011

	// ErrAdminRequired indicates that the endpoint is restricted to administrators.
	ErrAdminRequired = 3012

	// ErrCannotDeleteAdmin indicates an attempt to delete an administrator account.
	ErrCannotDeleteAdmin = 3013

	// ErrInvalidTheme indicates an unknown UI theme name.
	ErrInvalidTheme = 3014
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates that the object storage rejected or failed an operation.
	ErrFileStorageFailed = 5001
)
