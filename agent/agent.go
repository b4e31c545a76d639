package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Agent CLI errors.
var (
	// ErrAgentNotFound indicates the agent CLI binary was not found.
	ErrAgentNotFound = errors.New("agent CLI not found")

	// ErrAgentTimeout indicates the agent invocation timed out.
	ErrAgentTimeout = errors.New("agent invocation timed out")

	// ErrAgentFailed indicates the agent CLI exited with an error.
	ErrAgentFailed = errors.New("agent invocation failed")
)

// DefaultRunTimeout bounds a single generation call.
const DefaultRunTimeout = 300 * time.Second

// Request describes one agent invocation.
type Request struct {
	AgentID    string        // Agent to spawn
	Task       string        // Full task text
	Label      string        // Session label for traceability
	Cleanup    string        // Session cleanup policy (e.g. "delete")
	RunTimeout time.Duration // Bounds the call; DefaultRunTimeout when zero
}

// Invoker runs a task against an agent and returns its text output.
// The generation call is bounded by the request timeout; the caller
// decides what to do with the returned text.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (string, error)
}

// CLIInvoker wraps an agent CLI binary for structured invocation.
type CLIInvoker struct {
	binaryPath string
	model      string
	timeout    time.Duration
}

// CLIConfig configures the agent CLI wrapper.
type CLIConfig struct {
	BinaryPath string        // Path to the agent binary (default: "agentctl")
	Model      string        // Model override (empty = task-based selection)
	Timeout    time.Duration // Default timeout (default: DefaultRunTimeout)
}

// NewCLIInvoker creates a new agent CLI wrapper.
// Returns ErrAgentNotFound if the binary is not installed.
func NewCLIInvoker(cfg CLIConfig) (*CLIInvoker, error) {
	binaryPath := cfg.BinaryPath
	if binaryPath == "" {
		binaryPath = "agentctl"
	}

	if _, err := exec.LookPath(binaryPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, binaryPath)
	}

	model := cfg.Model
	if model == "" {
		model = string(SelectModel(Generate))
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultRunTimeout
	}

	return &CLIInvoker{
		binaryPath: binaryPath,
		model:      model,
		timeout:    timeout,
	}, nil
}

// Invoke implements Invoker by spawning a one-shot agent session.
func (c *CLIInvoker) Invoke(ctx context.Context, req Request) (string, error) {
	timeout := req.RunTimeout
	if timeout == 0 {
		timeout = c.timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := c.buildArgs(req)
	cmd := exec.CommandContext(ctx, c.binaryPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: after %v", ErrAgentTimeout, timeout)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", ctx.Err()
		}
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("%w: %s", ErrAgentFailed, stderrStr)
		}
		return "", fmt.Errorf("%w: %v", ErrAgentFailed, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// buildArgs constructs command line arguments for the agent CLI.
func (c *CLIInvoker) buildArgs(req Request) []string {
	args := []string{"run", "--agent", req.AgentID, "--print"}

	if c.model != "" {
		args = append(args, "--model", c.model)
	}
	if req.Label != "" {
		args = append(args, "--label", req.Label)
	}
	if req.Cleanup != "" {
		args = append(args, "--cleanup", req.Cleanup)
	}

	args = append(args, "-p", req.Task)

	return args
}

// BinaryPath returns the path to the agent binary.
func (c *CLIInvoker) BinaryPath() string {
	return c.binaryPath
}

// DefaultTimeout returns the default timeout.
func (c *CLIInvoker) DefaultTimeout() time.Duration {
	return c.timeout
}
