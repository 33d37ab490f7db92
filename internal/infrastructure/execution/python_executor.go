package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	domain "code_runner_service/internal/domain/execution"
	"code_runner_service/internal/pkg/logger"
)

// Interpreter environment for every child process: no bytecode cache
// files polluting the workspace bundle, unbuffered output so partial
// output survives timeouts.
var childEnv = []string{
	"PYTHONDONTWRITEBYTECODE=1",
	"PYTHONUNBUFFERED=1",
}

type pythonExecutor struct {
	limits domain.Limits
	logger logger.Logger
}

// NewPythonExecutor creates an Executor running python entrypoints under
// the given limits.
func NewPythonExecutor(limits domain.Limits, logger logger.Logger) (domain.Executor, error) {
	if limits.MaxRunSeconds < 1 {
		return nil, fmt.Errorf("max run seconds must be at least 1, got %d", limits.MaxRunSeconds)
	}
	if limits.MaxOutputBytes < 1 {
		return nil, fmt.Errorf("max output bytes must be at least 1, got %d", limits.MaxOutputBytes)
	}
	return &pythonExecutor{limits: limits, logger: logger}, nil
}

// Execute runs the entrypoint and captures bounded stdout/stderr. A run
// killed by the wall-clock limit returns TimedOut rather than an error.
func (e *pythonExecutor) Execute(ctx context.Context, request *domain.Request) (*domain.Result, error) {
	if request.WorkspaceDir == "" || request.EntryPoint == "" || request.Interpreter == "" {
		return nil, fmt.Errorf("workspace dir, entrypoint and interpreter are all required")
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(e.limits.MaxRunSeconds)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(runCtx, request.Interpreter, request.EntryPoint)
	cmd.Dir = request.WorkspaceDir
	cmd.Env = append(append(os.Environ(), childEnv...), request.Env...)

	// Run in its own process group so cancellation kills spawned children too
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	stdout := newBoundedBuffer(e.limits.MaxOutputBytes)
	stderr := newBoundedBuffer(e.limits.MaxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", request.Interpreter, err)
	}

	if err := applyResourceLimits(cmd.Process.Pid, e.limits); err != nil {
		e.logger.Warn("failed to apply resource limits to pid ", cmd.Process.Pid, ": ", err)
	}

	runErr := cmd.Wait()
	duration := time.Since(started)

	result := &domain.Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: duration,
		TimedOut: errors.Is(runCtx.Err(), context.DeadlineExceeded),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) && !result.TimedOut {
			return nil, fmt.Errorf("failed to observe process: %w", runErr)
		}
	}
	result.ExitCode = cmd.ProcessState.ExitCode()

	e.logger.Info("Executed ", request.EntryPoint,
		" exit_code=", result.ExitCode,
		" timed_out=", result.TimedOut,
		" duration=", duration.Round(time.Millisecond))
	return result, nil
}

// boundedBuffer keeps at most max bytes and discards the rest.
type boundedBuffer struct {
	mu  sync.Mutex
	max int64
	buf []byte
}

func newBoundedBuffer(max int64) *boundedBuffer {
	return &boundedBuffer{max: max}
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := b.max - int64(len(b.buf))
	if remaining > 0 {
		if int64(len(p)) > remaining {
			b.buf = append(b.buf, p[:remaining]...)
		} else {
			b.buf = append(b.buf, p...)
		}
	}
	// Report full writes so the child never sees a broken pipe
	return len(p), nil
}

func (b *boundedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf
}
