package vpn

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Status reports the VPN connection state.
type Status string

const (
	StatusConnected    Status = "Connected"
	StatusDisconnected Status = "Disconnected"
	StatusOther        Status = "Other"
)

// Rotator is the network-identity control surface consumed by the
// dispatcher.
type Rotator interface {
	Status(ctx context.Context) (Status, error)
	Connect(ctx context.Context) error
	SetRegion(ctx context.Context, region string) error
}

// runner executes a CLI command and returns its combined output.
// Injectable for tests.
type runner func(ctx context.Context, name string, args ...string) (string, error)

func execRunner(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// PIA drives the Private Internet Access CLI.
type PIA struct {
	command string
	timeout time.Duration
	run     runner
	logger  *slog.Logger
}

// PIAOption configures a PIA rotator.
type PIAOption func(*PIA)

// WithCommand sets the piactl binary path.
func WithCommand(path string) PIAOption {
	return func(p *PIA) {
		p.command = path
	}
}

// WithTimeout bounds each CLI invocation.
func WithTimeout(d time.Duration) PIAOption {
	return func(p *PIA) {
		p.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) PIAOption {
	return func(p *PIA) {
		p.logger = logger
	}
}

// NewPIA creates a rotator backed by piactl.
func NewPIA(opts ...PIAOption) *PIA {
	p := &PIA{
		command: "piactl",
		timeout: 30 * time.Second,
		run:     execRunner,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Status queries the current connection state.
func (p *PIA) Status(ctx context.Context) (Status, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.run(ctx, p.command, "get", "connectionstate")
	if err != nil {
		return StatusOther, fmt.Errorf("piactl get connectionstate: %w", err)
	}

	switch out {
	case "Connected":
		return StatusConnected, nil
	case "Disconnected":
		return StatusDisconnected, nil
	default:
		return StatusOther, nil
	}
}

// Connect brings the VPN up.
func (p *PIA) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.logger.Info("connecting vpn")
	if _, err := p.run(ctx, p.command, "connect"); err != nil {
		return fmt.Errorf("piactl connect: %w", err)
	}
	return nil
}

// SetRegion switches the VPN egress region.
func (p *PIA) SetRegion(ctx context.Context, region string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.logger.Info("switching vpn region", "region", region)
	if _, err := p.run(ctx, p.command, "set", "region", region); err != nil {
		return fmt.Errorf("piactl set region %s: %w", region, err)
	}
	return nil
}

// NopRotator satisfies Rotator for deployments without VPN control.
// It always reports Connected and treats every action as a success.
type NopRotator struct{}

func (NopRotator) Status(context.Context) (Status, error)  { return StatusConnected, nil }
func (NopRotator) Connect(context.Context) error           { return nil }
func (NopRotator) SetRegion(context.Context, string) error { return nil }
