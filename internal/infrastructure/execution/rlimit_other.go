//go:build !linux
// +build !linux

package execution

import domain "code_runner_service/internal/domain/execution"

// applyResourceLimits is a no-op on platforms without prlimit; the
// wall-clock timeout still bounds runs.
func applyResourceLimits(pid int, limits domain.Limits) error {
	return nil
}
