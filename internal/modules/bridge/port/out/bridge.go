package out

import (
	"context"

	"pomodoro/internal/modules/bridge/domain"
)

// ManifestStore returns domain.ErrManifestMissing when no bridge is
// configured.
type ManifestStore interface {
	Load(ctx context.Context) (domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Invoke(ctx context.Context, manifest domain.Manifest, req domain.InvokeRequest) (string, error)
}
