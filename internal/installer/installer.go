package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"unicode/utf8"
)

const (
	// DefaultElevator is the privilege elevation command.
	DefaultElevator = "sudo"
	// DefaultManager is the package manager invoked through the elevator.
	DefaultManager = "dpkg"
	// DefaultInstallFlag asks the package manager to install an archive.
	DefaultInstallFlag = "-i"
)

var (
	// ErrInvalidPath is returned when a path cannot be passed as a text argument.
	ErrInvalidPath = errors.New("package path is not valid UTF-8")
	// ErrInstallFailed is returned when the installer exits with a non-zero status.
	ErrInstallFailed = errors.New("package installation failed")
)

// Installer runs `<command> <args...> <path>` for a package file.
type Installer struct {
	command string
	args    []string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// Option customizes an Installer.
type Option func(*Installer)

// WithCommand replaces the elevation and package manager command line.
// The package path is always appended as the last argument.
func WithCommand(command string, args ...string) Option {
	return func(i *Installer) {
		i.command = command
		i.args = args
	}
}

// WithStreams replaces the standard streams inherited by the child process.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(i *Installer) {
		i.stdin = stdin
		i.stdout = stdout
		i.stderr = stderr
	}
}

// New returns an Installer running `sudo dpkg -i` with the parent's standard streams.
func New(opts ...Option) *Installer {
	i := &Installer{
		command: DefaultElevator,
		args:    []string{DefaultManager, DefaultInstallFlag},
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// CommandLine returns the full argument vector used to install path.
func (i *Installer) CommandLine(path string) []string {
	argv := make([]string, 0, len(i.args)+2) //nolint:mnd // Command plus path.
	argv = append(argv, i.command)
	argv = append(argv, i.args...)

	return append(argv, path)
}

// Install runs the package manager for path and waits for it to exit.
// Any non-zero exit status is a failure regardless of the printed output.
func (i *Installer) Install(ctx context.Context, path string) error {
	if !utf8.ValidString(path) {
		return fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}

	argv := i.CommandLine(path)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // The command line is fixed except for the package path.
	cmd.Stdin = i.stdin
	cmd.Stdout = i.stdout
	cmd.Stderr = i.stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with code %d: %w", i.command, exitErr.ExitCode(), ErrInstallFailed)
		}

		return fmt.Errorf("run %s: %w", i.command, err)
	}

	return nil
}
