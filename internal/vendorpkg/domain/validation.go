package domain

import (
	"fmt"
	"time"
)

// Hard constraints on fresh KYC uploads.
const (
	// MaxVideoDuration is the advertised limit for the liveness video.
	MaxVideoDuration = 10 * time.Second
	// VideoDurationBuffer absorbs client-side metadata measurement error.
	VideoDurationBuffer = time.Second
	// MaxDocumentSize caps the identity document upload.
	MaxDocumentSize = 550 * 1024
	// DocumentContentType is the only accepted identity document format.
	DocumentContentType = "application/pdf"
)

// FieldError is a validation failure scoped to one wizard control. It blocks
// advancement of the current step but never fails the whole wizard.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateKYCVideo checks the client-measured duration of the liveness video.
func ValidateKYCVideo(duration time.Duration) error {
	if duration <= 0 {
		return &FieldError{Field: "video", Reason: "video duration could not be measured"}
	}
	if duration > MaxVideoDuration+VideoDurationBuffer {
		return &FieldError{Field: "video", Reason: "video must be 10 seconds or less"}
	}
	return nil
}

// ValidateKYCDocument checks the identity document's type and size. A non-PDF
// is rejected regardless of size.
func ValidateKYCDocument(contentType string, size int64) error {
	if contentType != DocumentContentType {
		return &FieldError{Field: "doc", Reason: "only PDF files are allowed"}
	}
	if size > MaxDocumentSize {
		return &FieldError{Field: "doc", Reason: "file size must be less than 550KB"}
	}
	return nil
}
