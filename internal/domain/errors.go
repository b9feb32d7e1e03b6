package domain

import (
	"errors"
	"net/http"

	"talent-pool-backend/pkg/apperror"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("resource not found")

var (
	ErrDuplicateEmail      = apperror.Conflict("User already exists")
	ErrInvalidCredentials  = apperror.BadRequest("Invalid Credentials")
	ErrRoleMismatch        = apperror.BadRequest("Invalid account type for this email")
	ErrAccountDisabled     = apperror.Unauthorized("Account is disabled")
	ErrUserNotFound        = apperror.NotFound("User not found")
	ErrProfileNotFound     = apperror.NotFound("Profile not found")
	ErrEntryNotFound       = apperror.NotFound("Entry not found")
	ErrNoFileProvided      = apperror.BadRequest("No file uploaded")
	ErrUnsupportedFileType = apperror.BadRequest("Resume must be PDF, DOC, or DOCX")
	ErrUnsupportedImage    = apperror.BadRequest("Logo must be a JPEG or PNG image")
	ErrFileTooLarge        = apperror.BadRequest("File exceeds the maximum allowed size")
	ErrMalwareDetected     = apperror.BadRequest("File rejected by malware scan")
	ErrScanUnavailable     = apperror.New(http.StatusServiceUnavailable, "File scanning is temporarily unavailable", nil)
	ErrRecruiterNotFound   = apperror.NotFound("Recruiter profile not found")
	ErrTalentNotFound      = apperror.NotFound("Talent not found")
	ErrAlreadyShortlisted  = apperror.Conflict("Talent already shortlisted")
)
