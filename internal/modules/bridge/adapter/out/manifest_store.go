package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pomodoro/internal/modules/bridge/domain"
	bridgeout "pomodoro/internal/modules/bridge/port/out"
)

// FileManifestStore reads <bridgeDir>/bridge.json. A relative binary path is
// resolved against bridgeDir.
type FileManifestStore struct {
	dir  string
	path string
}

func NewFileManifestStore(bridgeDir string) bridgeout.ManifestStore {
	return &FileManifestStore{dir: bridgeDir, path: filepath.Join(bridgeDir, "bridge.json")}
}

func (s *FileManifestStore) Load(_ context.Context) (domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrManifestMissing, s.path)
		}
		return domain.Manifest{}, fmt.Errorf("read bridge manifest: %w", err)
	}
	var manifest domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifest); err != nil {
		return domain.Manifest{}, fmt.Errorf("decode bridge manifest: %w", err)
	}
	if manifest.Binary != "" && !filepath.IsAbs(manifest.Binary) {
		manifest.Binary = filepath.Clean(filepath.Join(s.dir, manifest.Binary))
	}
	return manifest, nil
}
