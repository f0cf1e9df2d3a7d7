package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pomodoro/internal/modules/bridge/domain"
	"pomodoro/internal/modules/bridge/dto"
	bridgeout "pomodoro/internal/modules/bridge/port/out"
	apperrors "pomodoro/internal/platform/errors"
)

type BridgeService struct {
	store     bridgeout.ManifestStore
	host      bridgeout.Host
	invokeCtx domain.InvokeContext
}

func NewBridgeService(store bridgeout.ManifestStore, host bridgeout.Host, invokeCtx domain.InvokeContext) *BridgeService {
	return &BridgeService{store: store, host: host, invokeCtx: invokeCtx}
}

// Available is a cheap probe: it never spawns the host binary.
func (s *BridgeService) Available(ctx context.Context) bool {
	manifest, err := s.store.Load(ctx)
	if err != nil {
		return false
	}
	if manifest.Validate() != nil || !manifest.Enabled {
		return false
	}
	return fileExists(manifest.Binary)
}

func (s *BridgeService) Invoke(ctx context.Context, input dto.InvokeInput) (dto.InvokeOutput, error) {
	req := domain.InvokeRequest{
		Command:  domain.Command(input.Command),
		ArgsJSON: input.ArgsJSON,
		Context:  s.invokeCtx,
	}
	if err := req.Validate(); err != nil {
		return dto.InvokeOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	manifest, err := s.runnableManifest(ctx)
	if err != nil {
		return dto.InvokeOutput{}, err
	}
	result, err := s.host.Invoke(ctx, manifest, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return dto.InvokeOutput{}, fmt.Errorf("%w: %s", domain.ErrBridgeTimeout, input.Command)
		}
		return dto.InvokeOutput{}, err
	}
	return dto.InvokeOutput{Command: input.Command, ResultJSON: result}, nil
}

func (s *BridgeService) Status(ctx context.Context) (dto.StatusOutput, error) {
	manifest, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrManifestMissing) {
			return dto.StatusOutput{Configured: false}, nil
		}
		return dto.StatusOutput{}, err
	}
	out := dto.StatusOutput{
		Configured: true,
		Name:       manifest.Name,
		Version:    manifest.Version,
		Binary:     manifest.Binary,
		Enabled:    manifest.Enabled,
	}
	if err := manifest.Validate(); err != nil {
		out.Error = err.Error()
		return out, nil
	}
	out.Available = manifest.Enabled && fileExists(manifest.Binary)
	return out, nil
}

func (s *BridgeService) Doctor(ctx context.Context) (dto.DoctorOutput, error) {
	manifest, err := s.store.Load(ctx)
	if err != nil {
		return dto.DoctorOutput{}, err
	}
	result := dto.DoctorOutput{Name: manifest.Name}
	if err := manifest.Validate(); err != nil {
		result.Error = err.Error()
		return result, nil
	}
	result.ManifestValid = true

	binaryOK := fileExists(manifest.Binary)
	result.BinaryReachable = binaryOK
	checksumOK := false
	if binaryOK {
		checksumOK = checksumMatches(manifest.Binary, manifest.SHA256) == nil
	}
	result.ChecksumValid = checksumOK
	if binaryOK && checksumOK && manifest.Enabled && s.host != nil {
		meta, err := s.host.GetMetadata(ctx, manifest)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.LifecycleOK = true
			result.Commands = meta.Commands
		}
	}
	switch {
	case !binaryOK:
		result.Error = fmt.Sprintf("binary does not exist: %s", manifest.Binary)
	case !checksumOK:
		result.Error = "checksum mismatch"
	case !manifest.Enabled:
		result.Error = domain.ErrBridgeDisabled.Error()
	}
	return result, nil
}

func (s *BridgeService) runnableManifest(ctx context.Context) (domain.Manifest, error) {
	manifest, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrManifestMissing) {
			return domain.Manifest{}, fmt.Errorf("%w: %v", apperrors.ErrBridgeUnavailable, err)
		}
		return domain.Manifest{}, err
	}
	if err := manifest.Validate(); err != nil {
		return domain.Manifest{}, err
	}
	if !manifest.Enabled {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrBridgeDisabled, manifest.Name)
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return domain.Manifest{}, err
	}
	if s.host == nil {
		return domain.Manifest{}, apperrors.ErrBridgeUnavailable
	}
	return manifest, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read bridge binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
