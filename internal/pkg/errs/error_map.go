/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses, WebSocket error messages and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrInvalidMessageFormat:  {Code: ErrInvalidMessageFormat, Message: "Message could not be read."},

	// 2xxx: Collaboration and Content Business Logic Errors
	ErrUnsupportedMessageType: {Code: ErrUnsupportedMessageType, Message: "Unsupported message type: %s."},
	ErrMessageFieldMissing:    {Code: ErrMessageFieldMissing, Message: "Message is missing the %s field."},
	ErrRoomAccessDenied:       {Code: ErrRoomAccessDenied, Message: "You are not part of this session.", Status: http.StatusForbidden},
	ErrChatDisabled:           {Code: ErrChatDisabled, Message: "Chat is disabled.", Status: http.StatusForbidden},
	ErrMessageNotFound:        {Code: ErrMessageNotFound, Message: "Message not found.", Status: http.StatusNotFound},
	ErrMessageContentTooLong:  {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrMessageEmpty:           {Code: ErrMessageEmpty, Message: "Message is empty."},
	ErrTeamNotFound:           {Code: ErrTeamNotFound, Message: "Team not found.", Status: http.StatusNotFound},
	ErrNotTeamMember:          {Code: ErrNotTeamMember, Message: "Not a team member.", Status: http.StatusForbidden},
	ErrAlreadyTeamMember:      {Code: ErrAlreadyTeamMember, Message: "User already in team."},
	ErrTeamPermissionDenied:   {Code: ErrTeamPermissionDenied, Message: "Only the team creator can do this.", Status: http.StatusForbidden},
	ErrTeamNameInvalid:        {Code: ErrTeamNameInvalid, Message: "Invalid team name."},
	ErrFileNotFound:           {Code: ErrFileNotFound, Message: "File not found.", Status: http.StatusNotFound},
	ErrFileAccessDenied:       {Code: ErrFileAccessDenied, Message: "Access denied.", Status: http.StatusForbidden},
	ErrFileSizeTooLarge:       {Code: ErrFileSizeTooLarge, Message: "File is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrFileNotEditable:        {Code: ErrFileNotEditable, Message: "This file cannot be edited live."},

	// 3xxx: User, Session, and Security Errors
	ErrPowChallengeRequired: {Code: ErrPowChallengeRequired, Message: "Verification required. Please try again.", Status: http.StatusForbidden},
	ErrPowChallengeInvalid:  {Code: ErrPowChallengeInvalid, Message: "Verification failed. Please try again."},
	ErrAlreadyLoggedIn:      {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrInvalidUsername:      {Code: ErrInvalidUsername, Message: "Invalid username."},
	ErrInvalidPassword:      {Code: ErrInvalidPassword, Message: "Invalid password."},
	ErrUserAlreadyExists:    {Code: ErrUserAlreadyExists, Message: "Username is already taken.", Status: http.StatusConflict},
	ErrInvalidCredentials:   {Code: ErrInvalidCredentials, Message: "Incorrect username or password.", Status: http.StatusUnauthorized},
	ErrUserNotFound:         {Code: ErrUserNotFound, Message: "User not found.", Status: http.StatusNotFound},
	ErrUnauthorized:         {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrAdminRequired:        {Code: ErrAdminRequired, Message: "Admin access required.", Status: http.StatusForbidden},
	ErrCannotDeleteAdmin:    {Code: ErrCannotDeleteAdmin, Message: "Cannot delete admin user.", Status: http.StatusForbidden},
	ErrInvalidTheme:         {Code: ErrInvalidTheme, Message: "Unknown theme."},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File storage failed. Please try again.", Status: http.StatusBadGateway},
}
