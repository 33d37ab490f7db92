package execution

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	domain "code_runner_service/internal/domain/execution"
	"code_runner_service/internal/pkg/logger"
)

const (
	venvDirName      = ".venv"
	requirementsFile = "requirements.txt"
)

type venvProvisioner struct {
	pythonPath string
	logger     logger.Logger
}

// NewVenvProvisioner creates a Provisioner that builds a virtualenv when a
// workspace declares dependencies in requirements.txt.
func NewVenvProvisioner(pythonPath string, logger logger.Logger) (domain.Provisioner, error) {
	if pythonPath == "" {
		return nil, fmt.Errorf("python path must not be empty")
	}
	return &venvProvisioner{pythonPath: pythonPath, logger: logger}, nil
}

// Provision creates a virtualenv and installs requirements when present.
// Without requirements.txt the system interpreter is returned unchanged.
func (p *venvProvisioner) Provision(ctx context.Context, workspaceDir string) (string, error) {
	requirementsPath := filepath.Join(workspaceDir, requirementsFile)
	if _, err := os.Stat(requirementsPath); err != nil {
		return p.pythonPath, nil
	}

	venvDir := filepath.Join(workspaceDir, venvDirName)
	if err := p.runTool(ctx, workspaceDir, p.pythonPath, "-m", "venv", venvDir); err != nil {
		return "", fmt.Errorf("%w: venv creation: %v", domain.ErrProvisionFailed, err)
	}

	pipPath := filepath.Join(venvDir, "bin", "pip")
	if err := p.runTool(ctx, workspaceDir, pipPath, "install", "--upgrade", "pip", "setuptools", "wheel"); err != nil {
		return "", fmt.Errorf("%w: pip upgrade: %v", domain.ErrProvisionFailed, err)
	}
	if err := p.runTool(ctx, workspaceDir, pipPath, "install", "-r", requirementsPath); err != nil {
		return "", fmt.Errorf("%w: requirements install: %v", domain.ErrProvisionFailed, err)
	}

	p.logger.Info("Provisioned virtualenv in ", workspaceDir)
	return filepath.Join(venvDir, "bin", "python"), nil
}

func (p *venvProvisioner) runTool(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %v failed: %v (%s)", name, args, err, truncateForLog(output))
	}
	return nil
}

func truncateForLog(output []byte) string {
	const maxLogged = 512
	if len(output) > maxLogged {
		return string(output[:maxLogged]) + "..."
	}
	return string(output)
}
