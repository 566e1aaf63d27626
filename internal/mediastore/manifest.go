package mediastore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"wamock/internal/constants"
	"wamock/internal/models"
	"wamock/internal/security"
)

// Import loads the media manifest from dir, keeping only entries that are
// still valid. A missing file is a clean empty start. Malformed JSON is
// logged and also yields an empty start; startup never fails on a bad
// manifest. Returns (loaded, discarded) counts.
func (s *Store) Import(dir string) (int, int, error) {
	if err := security.ValidateManifestDir(dir); err != nil {
		return 0, 0, fmt.Errorf("invalid import path: %w", err)
	}

	path := filepath.Join(dir, constants.ManifestFileName)
	data, err := os.ReadFile(path) // #nosec G304 - path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to read manifest: %w", err)
	}

	if len(data) > constants.MaxManifestSizeBytes {
		s.events.RecordError("Media manifest exceeds size limit, starting empty", fmt.Sprintf("%d bytes", len(data)))
		return 0, 0, nil
	}

	var manifest models.MediaManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		s.events.RecordError("Failed to parse media manifest, starting empty", err.Error())
		return 0, 0, nil
	}

	loaded, discarded := s.Replace(manifest.Media)
	s.events.RecordMediaOp("import", "", fmt.Sprintf("%d loaded, %d auto-cleaned", loaded, discarded))
	return loaded, discarded, nil
}

// Export sweeps the store and writes the remaining entries to
// dir/media-manifest.json as pretty-printed JSON, creating dir if needed.
// Running it twice with no intervening mutation yields an identical media
// array (the exportedAt stamp aside).
func (s *Store) Export(dir string) error {
	if err := security.ValidateManifestDir(dir); err != nil {
		return fmt.Errorf("invalid export path: %w", err)
	}

	if err := os.MkdirAll(dir, constants.ManifestDirPerm); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	entries, _ := s.List()
	manifest := models.MediaManifest{
		Version:    constants.ManifestVersion,
		ExportedAt: s.now(),
		Media:      entries,
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(dir, constants.ManifestFileName)
	if err := os.WriteFile(path, data, constants.ManifestFilePerm); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	s.events.RecordMediaOp("export", "", fmt.Sprintf("%d entries to %s", len(entries), path))
	return nil
}
