package models

import "time"

// MediaEntry is the metadata the emulator keeps for an uploaded file. File
// bytes are discarded at upload time; only metadata persists.
type MediaEntry struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Valid reports whether the entry is still live at the given instant.
// Expiry is inclusive: an entry remains valid at exactly ExpiresAt.
func (e MediaEntry) Valid(now time.Time) bool {
	return !now.After(e.ExpiresAt)
}

// MediaManifest is the on-disk export format for the media store.
// Timestamps serialize as RFC 3339 strings via time.Time's JSON encoding.
type MediaManifest struct {
	Version    string       `json:"version"`
	ExportedAt time.Time    `json:"exportedAt"`
	Media      []MediaEntry `json:"media"`
}
