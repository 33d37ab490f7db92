package execution

import (
	"context"
	"errors"
)

// ErrNoEntrypoint indicates that no runnable file could be found in a workspace.
var ErrNoEntrypoint = errors.New("no entrypoint found in workspace")

// ErrProvisionFailed indicates that dependency installation failed before execution.
var ErrProvisionFailed = errors.New("dependency provisioning failed")

// Executor runs a prepared workspace entrypoint under resource limits.
type Executor interface {
	// Execute runs the request and returns its result. A run that exceeds
	// the wall-clock limit returns a Result with TimedOut set rather than
	// an error; errors are reserved for failures to start or observe the
	// process.
	Execute(ctx context.Context, request *Request) (*Result, error)
}

// Provisioner installs workspace dependencies ahead of execution.
type Provisioner interface {
	// Provision inspects the workspace and installs its declared
	// dependencies. It returns the interpreter path execution should use,
	// which may differ from the system interpreter when an isolated
	// environment was created.
	Provision(ctx context.Context, workspaceDir string) (string, error)
}
