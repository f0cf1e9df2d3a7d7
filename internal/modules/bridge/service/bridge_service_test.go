package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pomodoro/internal/modules/bridge/domain"
	"pomodoro/internal/modules/bridge/dto"
	"pomodoro/internal/modules/bridge/service"
	apperrors "pomodoro/internal/platform/errors"
)

type fakeStore struct {
	manifest domain.Manifest
	err      error
}

func (s fakeStore) Load(context.Context) (domain.Manifest, error) {
	return s.manifest, s.err
}

type fakeHost struct {
	result   string
	err      error
	lastReq  *domain.InvokeRequest
	metadata domain.Metadata
}

func (h *fakeHost) CheckLifecycle(context.Context, domain.Manifest) error { return nil }
func (h *fakeHost) GetMetadata(context.Context, domain.Manifest) (domain.Metadata, error) {
	return h.metadata, nil
}
func (h *fakeHost) Invoke(_ context.Context, _ domain.Manifest, req domain.InvokeRequest) (string, error) {
	h.lastReq = &req
	return h.result, h.err
}

var invokeCtx = domain.InvokeContext{DataDir: "/tmp/pomodoro", WeekStart: "sunday"}

func manifestWithBinary(t *testing.T, enabled bool) domain.Manifest {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "native")
	payload := []byte("#!/bin/sh\necho native\n")
	if err := os.WriteFile(binPath, payload, 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	hash := sha256.Sum256(payload)
	return domain.Manifest{Name: "native", Version: "1.0.0", Binary: binPath, SHA256: hex.EncodeToString(hash[:]), Enabled: enabled}
}

func TestAvailableRequiresEnabledManifestAndBinary(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if service.NewBridgeService(fakeStore{err: domain.ErrManifestMissing}, &fakeHost{}, invokeCtx).Available(ctx) {
		t.Fatalf("missing manifest must not be available")
	}
	if service.NewBridgeService(fakeStore{manifest: manifestWithBinary(t, false)}, &fakeHost{}, invokeCtx).Available(ctx) {
		t.Fatalf("disabled bridge must not be available")
	}
	missing := manifestWithBinary(t, true)
	missing.Binary = filepath.Join(t.TempDir(), "gone")
	if service.NewBridgeService(fakeStore{manifest: missing}, &fakeHost{}, invokeCtx).Available(ctx) {
		t.Fatalf("missing binary must not be available")
	}
	if !service.NewBridgeService(fakeStore{manifest: manifestWithBinary(t, true)}, &fakeHost{}, invokeCtx).Available(ctx) {
		t.Fatalf("expected bridge to be available")
	}
}

func TestInvokePassesContextAndReturnsResult(t *testing.T) {
	t.Parallel()
	host := &fakeHost{result: `{"sessions":[]}`}
	svc := service.NewBridgeService(fakeStore{manifest: manifestWithBinary(t, true)}, host, invokeCtx)

	out, err := svc.Invoke(context.Background(), dto.InvokeInput{Command: "load_sessions"})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if out.ResultJSON != `{"sessions":[]}` {
		t.Fatalf("unexpected result %q", out.ResultJSON)
	}
	if host.lastReq == nil || host.lastReq.Context != invokeCtx {
		t.Fatalf("expected invoke context to be forwarded, got %+v", host.lastReq)
	}
}

func TestInvokeRejectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	manifest := manifestWithBinary(t, true)
	manifest.SHA256 = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	host := &fakeHost{}
	svc := service.NewBridgeService(fakeStore{manifest: manifest}, host, invokeCtx)

	_, err := svc.Invoke(context.Background(), dto.InvokeInput{Command: "load_sessions"})
	if !errors.Is(err, domain.ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
	if host.lastReq != nil {
		t.Fatalf("host must not be called on checksum mismatch")
	}
}

func TestInvokeMapsErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	disabled := service.NewBridgeService(fakeStore{manifest: manifestWithBinary(t, false)}, &fakeHost{}, invokeCtx)
	if _, err := disabled.Invoke(ctx, dto.InvokeInput{Command: "load_sessions"}); !errors.Is(err, domain.ErrBridgeDisabled) {
		t.Fatalf("expected ErrBridgeDisabled, got %v", err)
	}

	missing := service.NewBridgeService(fakeStore{err: domain.ErrManifestMissing}, &fakeHost{}, invokeCtx)
	if _, err := missing.Invoke(ctx, dto.InvokeInput{Command: "load_sessions"}); !errors.Is(err, apperrors.ErrBridgeUnavailable) {
		t.Fatalf("expected ErrBridgeUnavailable, got %v", err)
	}

	timeout := service.NewBridgeService(fakeStore{manifest: manifestWithBinary(t, true)}, &fakeHost{err: context.DeadlineExceeded}, invokeCtx)
	if _, err := timeout.Invoke(ctx, dto.InvokeInput{Command: "get_session_stats"}); !errors.Is(err, domain.ErrBridgeTimeout) {
		t.Fatalf("expected ErrBridgeTimeout, got %v", err)
	}

	unknown := service.NewBridgeService(fakeStore{manifest: manifestWithBinary(t, true)}, &fakeHost{}, invokeCtx)
	if _, err := unknown.Invoke(ctx, dto.InvokeInput{Command: "minimize_window"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDoctorReportsChecks(t *testing.T) {
	t.Parallel()
	host := &fakeHost{metadata: domain.Metadata{Name: "native", Version: "1.0.0", Commands: []string{"load_sessions"}}}
	svc := service.NewBridgeService(fakeStore{manifest: manifestWithBinary(t, true)}, host, invokeCtx)

	result, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if !result.ManifestValid || !result.BinaryReachable || !result.ChecksumValid || !result.LifecycleOK {
		t.Fatalf("expected all checks to pass: %+v", result)
	}
	if len(result.Commands) != 1 || result.Error != "" {
		t.Fatalf("unexpected doctor result: %+v", result)
	}
}

func TestStatusWithoutManifest(t *testing.T) {
	t.Parallel()
	svc := service.NewBridgeService(fakeStore{err: domain.ErrManifestMissing}, &fakeHost{}, invokeCtx)
	status, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Configured || status.Available {
		t.Fatalf("expected unconfigured status, got %+v", status)
	}
}
