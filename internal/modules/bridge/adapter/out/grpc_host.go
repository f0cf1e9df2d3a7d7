package out

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	bridgerpc "pomodoro/internal/modules/bridge/adapter/out/rpc"
	"pomodoro/internal/modules/bridge/domain"
	bridgeout "pomodoro/internal/modules/bridge/port/out"
	apperrors "pomodoro/internal/platform/errors"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost spawns the native binary for each call and kills it afterwards.
type GRPCHost struct{}

func NewGRPCHost() bridgeout.Host {
	return &GRPCHost{}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Commands: meta.Commands}, nil
}

func (h *GRPCHost) Invoke(ctx context.Context, manifest domain.Manifest, req domain.InvokeRequest) (string, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return "", err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.Invoke(callCtx, &bridgerpc.InvokeRequest{
		Command:  string(req.Command),
		ArgsJSON: req.ArgsJSON,
		Context: bridgerpc.InvokeContext{
			DataDir:   req.Context.DataDir,
			WeekStart: req.Context.WeekStart,
		},
	})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: command %s", domain.ErrBridgeTimeout, req.Command)
		}
		if status.Code(err) == codes.AlreadyExists {
			return "", fmt.Errorf("%w: %s", apperrors.ErrDuplicateSession, status.Convert(err).Message())
		}
		return "", fmt.Errorf("invoke %s: %w", req.Command, err)
	}
	return response.ResultJSON, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest, startTimeout time.Duration) (bridgerpc.NativeBridgeClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  bridgerpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          bridgerpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start bridge client: %w", err)
	}
	raw, err := rpcClient.Dispense(bridgerpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense bridge: %w", err)
	}
	typed, ok := raw.(bridgerpc.NativeBridgeClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("bridge rpc client type mismatch")
	}
	return typed, closeFn, nil
}

// callContext keeps a caller deadline and otherwise applies timeout.
func (h *GRPCHost) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
