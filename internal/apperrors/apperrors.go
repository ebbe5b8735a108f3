// Package apperrors defines the stable error catalog shared by every
// endpoint. Each error carries a numeric code and the HTTP status it maps
// to, so handlers can render the uniform error envelope without guessing.
package apperrors

import (
	"errors"
	"fmt"
)

// AppError is a classified application error. Values from the catalog below
// are compared by pointer via errors.Is, so services return them directly
// (or wrapped with WithCause to attach the underlying failure).
type AppError struct {
	Key     string
	Code    int
	Message string
	Status  int
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Key, e.cause)
	}
	return e.Key
}

func (e *AppError) Unwrap() error { return e.cause }

// Is lets a caused copy match its catalog entry.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Key == e.Key
}

// WithCause returns a copy of the catalog entry carrying the underlying
// error for logging. The code, message and status stay stable.
func (e *AppError) WithCause(err error) *AppError {
	c := *e
	c.cause = err
	return &c
}

func newErr(key string, code, status int, message string) *AppError {
	return &AppError{Key: key, Code: code, Message: message, Status: status}
}

// Catalog. The first five codes predate the rest and must not be renumbered;
// clients key on them.
var (
	ErrUserExists       = newErr("USER_EXISTS", 1001, 409, "User already exists.")
	ErrInvalidInput     = newErr("INVALID_INPUT", 1002, 400, "Missing required input.")
	ErrDatabase         = newErr("DB_ERROR", 1003, 500, "Database error.")
	ErrMethodNotAllowed = newErr("METHOD_NOT_ALLOWED", 1004, 405, "Method not allowed.")
	ErrRegisterFailed   = newErr("REGISTER_FAILED", 1005, 500, "User registration failed.")

	ErrAuthHeaderMissing = newErr("AUTH_HEADER_MISSING", 1006, 401, "Authorization header is required.")
	ErrInvalidToken      = newErr("INVALID_TOKEN", 1007, 401, "Invalid or expired token.")
	ErrUnauthorized      = newErr("UNAUTHORIZED", 1008, 401, "Unauthorized.")
	ErrUserNotExists     = newErr("USER_NOT_EXISTS", 1009, 401, "Unknown credentials.")
	ErrInvalidJSON       = newErr("INVALID_JSON", 1010, 400, "Request body is not valid JSON.")

	ErrNotFound         = newErr("NOT_FOUND", 1011, 404, "Resource not found.")
	ErrUserNotFound     = newErr("USER_NOT_FOUND", 1012, 404, "User not found.")
	ErrMediaNotFound    = newErr("MEDIA_NOT_FOUND", 1013, 404, "Media not found.")
	ErrTargetNotFound   = newErr("TARGET_NOT_FOUND", 1014, 404, "Target user not found.")
	ErrEndpointNotFound = newErr("ENDPOINT_NOT_FOUND", 1015, 404, "Endpoint not found.")

	ErrMediaOwnership   = newErr("MEDIA_OWNERSHIP_VIOLATION", 1016, 403, "Media belongs to another user's trip.")
	ErrUsernameTaken    = newErr("USERNAME_TAKEN", 1017, 409, "Username is already taken.")
	ErrNothingToUpdate  = newErr("NOTHING_TO_UPDATE", 1018, 400, "No recognized fields to update.")
	ErrInvalidTitle     = newErr("INVALID_TITLE", 1019, 422, "Title must be 1-255 characters.")
	ErrTitleTooLong     = newErr("TITLE_TOO_LONG", 1020, 422, "Title exceeds 255 characters.")
	ErrInvalidDesc      = newErr("INVALID_DESCRIPTION", 1021, 422, "Description must be a string or null.")
	ErrInvalidLatitude  = newErr("INVALID_LATITUDE", 1022, 422, "Latitude must be between -90 and 90.")
	ErrInvalidLongitude = newErr("INVALID_LONGITUDE", 1023, 422, "Longitude must be between -180 and 180.")
	ErrInvalidUserID    = newErr("INVALID_USER_ID", 1024, 400, "Invalid user id.")

	ErrUnsupportedMediaType = newErr("UNSUPPORTED_MEDIA_TYPE", 1025, 415, "File type is not allowed.")
	ErrFileSizeInvalid      = newErr("FILE_SIZE_INVALID", 1026, 413, "File is empty or exceeds the size limit.")
	ErrUploadFailed         = newErr("UPLOAD_FAILED", 1027, 400, "File upload failed.")
	ErrNoFilesProvided      = newErr("NO_FILES_PROVIDED", 1028, 400, "No files provided.")
	ErrNotMultipart         = newErr("CONTENT_TYPE_MUST_BE_MULTIPART", 1029, 415, "Content type must be multipart/form-data.")

	ErrCreateFailed = newErr("CREATE_FAILED", 1030, 500, "Create failed.")
	ErrUpdateFailed = newErr("UPDATE_FAILED", 1031, 500, "Update failed.")
	ErrDeleteFailed = newErr("DELETE_FAILED", 1032, 500, "Delete failed.")
	ErrServer       = newErr("SERVER_ERROR", 1033, 500, "Internal server error.")
)

// Classify maps any error to a catalog entry. Already-classified errors pass
// through unchanged; everything else becomes SERVER_ERROR so internals never
// leak into a response.
func Classify(err error) *AppError {
	var app *AppError
	if errors.As(err, &app) {
		return app
	}
	return ErrServer.WithCause(err)
}
