package domain

import (
	"context"
	"io"
)

// StoredFile is the result of saving content to a FileStore.
type StoredFile struct {
	Path string // storage key, used for later deletes
	URL  string // public URL clients can fetch
}

// FileStore persists uploaded files. Delete of a missing key is not an error.
type FileStore interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (*StoredFile, error)
	Delete(ctx context.Context, key string) error
}

// TextExtractor pulls plain text out of a resume document.
type TextExtractor interface {
	Extract(ext string, content []byte) (string, error)
}

// Event routing keys.
const (
	EventResumeUploaded    = "talent.resume_uploaded"
	EventTalentShortlisted = "recruiter.talent_shortlisted"
)

// EventPublisher emits domain events. Implementations must not block requests
// on broker availability.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type ResumeUploadedEvent struct {
	TalentID string `json:"talentId"`
	UserID   string `json:"userId"`
	Path     string `json:"path"`
	MimeType string `json:"mimetype"`
	HasText  bool   `json:"hasText"`
}

type TalentShortlistedEvent struct {
	RecruiterID string `json:"recruiterId"`
	TalentID    string `json:"talentId"`
	EntryID     string `json:"entryId"`
}
