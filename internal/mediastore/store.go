// Package mediastore keeps the emulator's ephemeral media metadata. Entries
// live for a fixed TTL; expired entries are hard-deleted lazily, by a sweep
// that runs on every read path rather than on a timer.
package mediastore

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"wamock/internal/constants"
	"wamock/internal/errors"
	"wamock/internal/ids"
	"wamock/internal/models"
	"wamock/internal/service"
)

// Clock abstracts time so TTL behavior is testable without real timers.
type Clock func() time.Time

// UploadRequest carries the validated-at-HTTP-layer facts about an upload.
// File bytes are never stored; the store only sees metadata.
type UploadRequest struct {
	Filename         string
	MimeType         string
	Size             int64
	FileCount        int
	MessagingProduct string
}

// Store is the in-memory TTL-bound media store. All access goes through a
// single mutex; request handlers are the only mutators, webhook dispatch
// never touches it.
type Store struct {
	mu      sync.Mutex
	entries map[string]models.MediaEntry
	now     Clock
	gen     *ids.Generator
	events  service.EventLogger
}

// New creates a store with the real clock.
func New(events service.EventLogger) *Store {
	return NewWithClock(time.Now, events)
}

// NewWithClock creates a store with an injected clock.
func NewWithClock(now Clock, events service.EventLogger) *Store {
	if events == nil {
		events = service.NoopEventLogger{}
	}
	return &Store{
		entries: make(map[string]models.MediaEntry),
		now:     now,
		gen:     ids.NewGeneratorWithClock(ids.Clock(now)),
		events:  events,
	}
}

// Upload validates the request and stores a new media entry with
// expiresAt = now + 30 days. It returns the stored entry.
func (s *Store) Upload(req UploadRequest) (*models.MediaEntry, error) {
	if err := validateUpload(req); err != nil {
		s.events.RecordValidationError(uploadErrorField(err), err.Error())
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry := models.MediaEntry{
		ID:         s.gen.Next(),
		Filename:   req.Filename,
		MimeType:   req.MimeType,
		Size:       req.Size,
		UploadedAt: now,
		ExpiresAt:  now.Add(constants.MediaTTLDays * 24 * time.Hour),
	}
	s.entries[entry.ID] = entry

	s.events.RecordMediaOp("upload", entry.ID, fmt.Sprintf("%s (%d bytes)", entry.Filename, entry.Size))
	return &entry, nil
}

// IsValid sweeps, then reports whether id exists and has not expired.
func (s *Store) IsValid(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	entry, ok := s.entries[id]
	return ok && entry.Valid(now)
}

// List sweeps, then returns the remaining entries (stable order by upload
// time, then id) and a human-readable count note.
func (s *Store) List() ([]models.MediaEntry, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(s.now())

	entries := make([]models.MediaEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].UploadedAt.Equal(entries[j].UploadedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].UploadedAt.Before(entries[j].UploadedAt)
	})

	return entries, fmt.Sprintf("%d media file(s) stored", len(entries))
}

// ExpireOne soft-expires a single entry: expiresAt becomes now, the entry
// stays in the map until the next read sweeps it out. Unknown ids are a
// NotFound error and mutate nothing.
func (s *Store) ExpireOne(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return errors.NewNotFoundError("media", id)
	}

	entry.ExpiresAt = s.now()
	s.entries[id] = entry

	s.events.RecordMediaOp("expire", id, "manual expire")
	return nil
}

// ExpireAll soft-expires every entry and returns the affected ids.
func (s *Store) ExpireAll() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expired := make([]string, 0, len(s.entries))
	for id, entry := range s.entries {
		entry.ExpiresAt = now
		s.entries[id] = entry
		expired = append(expired, id)
	}
	sort.Strings(expired)

	s.events.RecordMediaOp("expire_all", "", fmt.Sprintf("%d entries", len(expired)))
	return expired
}

// Count sweeps and returns the number of live entries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(s.now())
	return len(s.entries)
}

// Replace swaps the store contents, keeping only entries valid at now.
// Used by manifest import. Returns (loaded, discarded) counts.
func (s *Store) Replace(entries []models.MediaEntry) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries = make(map[string]models.MediaEntry, len(entries))
	discarded := 0
	for _, entry := range entries {
		if !entry.Valid(now) {
			discarded++
			continue
		}
		s.entries[entry.ID] = entry
	}
	return len(s.entries), discarded
}

// sweepLocked hard-deletes expired entries. Caller must hold the mutex.
func (s *Store) sweepLocked(now time.Time) {
	kept, removed := sweep(now, s.entries)
	s.entries = kept
	for _, id := range removed {
		s.events.RecordMediaOp("sweep", id, "expired entry removed")
	}
}

// sweep is the pure TTL pass: it partitions entries into kept and removed
// by comparing expiresAt against now. O(n) per call; the store holds at
// most a few hundred entries in a dev/test context.
func sweep(now time.Time, entries map[string]models.MediaEntry) (map[string]models.MediaEntry, []string) {
	kept := make(map[string]models.MediaEntry, len(entries))
	var removed []string
	for id, entry := range entries {
		if entry.Valid(now) {
			kept[id] = entry
		} else {
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return kept, removed
}

func validateUpload(req UploadRequest) error {
	if req.FileCount == 0 {
		return errors.NewValidationError("file", "no file provided")
	}
	if req.FileCount > 1 {
		return errors.NewValidationError("file", fmt.Sprintf("expected exactly one file, got %d", req.FileCount))
	}
	if !constants.AllowedMediaMimeTypes[req.MimeType] {
		return errors.NewValidationError("file", fmt.Sprintf("unsupported media type %q, allowed: %v", req.MimeType, constants.AllowedMediaMimeTypeList))
	}
	if req.Size > constants.MaxMediaSizeBytes {
		return errors.NewValidationError("file", fmt.Sprintf("file too large: %d bytes (max %d)", req.Size, constants.MaxMediaSizeBytes))
	}
	if req.MessagingProduct != constants.MessagingProduct {
		return errors.NewValidationError("messaging_product", fmt.Sprintf("messaging_product must be %q", constants.MessagingProduct))
	}
	return nil
}

func uploadErrorField(err error) string {
	if appErr, ok := err.(*errors.AppError); ok {
		if field, ok := appErr.Context["field"].(string); ok {
			return field
		}
	}
	return "file"
}
