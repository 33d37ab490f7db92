package execution

import "time"

// Limits bounds the resources a single run may consume.
type Limits struct {
	MaxRunSeconds  int
	MaxOutputBytes int64
	MaxMemoryBytes int64
}

// Request describes one execution of an entrypoint inside a workspace.
type Request struct {
	WorkspaceDir string
	EntryPoint   string
	Interpreter  string
	Env          []string
}

// Result captures the observable outcome of an execution.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
	TimedOut bool
}
