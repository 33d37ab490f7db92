//go:build linux
// +build linux

package execution

import (
	"fmt"

	domain "code_runner_service/internal/domain/execution"

	"golang.org/x/sys/unix"
)

// applyResourceLimits caps CPU time and address space of the started
// process. The CPU hard limit gets a two second grace window over the
// soft limit, matching the wall-clock timeout's enforcement order.
func applyResourceLimits(pid int, limits domain.Limits) error {
	cpuSeconds := uint64(limits.MaxRunSeconds)
	cpu := unix.Rlimit{Cur: cpuSeconds, Max: cpuSeconds + 2}
	if err := unix.Prlimit(pid, unix.RLIMIT_CPU, &cpu, nil); err != nil {
		return fmt.Errorf("failed to set CPU limit: %w", err)
	}

	if limits.MaxMemoryBytes > 0 {
		mem := unix.Rlimit{Cur: uint64(limits.MaxMemoryBytes), Max: uint64(limits.MaxMemoryBytes)}
		if err := unix.Prlimit(pid, unix.RLIMIT_AS, &mem, nil); err != nil {
			return fmt.Errorf("failed to set memory limit: %w", err)
		}
	}

	return nil
}
