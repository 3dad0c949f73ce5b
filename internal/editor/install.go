package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"vsixinstall/internal/utils"
)

var ErrInstallFailed = errors.New("installation failed")

type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands as child processes, forwarding their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

type Installer struct {
	command string
	runner  Runner
	logger  *utils.Logger
}

func NewInstaller(command string, runner Runner, logger *utils.Logger) *Installer {
	return &Installer{
		command: command,
		runner:  runner,
		logger:  logger,
	}
}

func (i *Installer) Command() string {
	return i.command
}

func (i *Installer) Install(ctx context.Context, packagePath string) error {
	args := []string{"--install-extension", packagePath}
	i.logger.LogCommand(i.command, args)

	if err := i.runner.Run(ctx, i.command, args...); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with code %d", ErrInstallFailed, i.command, exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}
	return nil
}
