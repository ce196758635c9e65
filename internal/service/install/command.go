package install

import (
	"context"
	"errors"
	"os"

	"github.com/oshokin/vscode-installer/internal/config"
	"github.com/oshokin/vscode-installer/internal/fetcher"
	"github.com/oshokin/vscode-installer/internal/installer"
	"github.com/oshokin/vscode-installer/internal/logger"
)

// DownloadURL points at the latest stable VS Code build for 64-bit Debian-based systems.
const DownloadURL = "https://update.code.visualstudio.com/latest/linux-deb-x64/stable"

// Options are inputs accepted by the install entry point.
type Options struct {
	// ConfigPath is the path to the settings YAML file.
	// Empty means the default file, which may be absent.
	ConfigPath string
}

// loggedError marks an error that has already been written to the log.
type loggedError struct {
	err error
}

func (e *loggedError) Error() string { return e.err.Error() }

func (e *loggedError) Unwrap() error { return e.err }

// IsLogged reports whether err was already logged by Run.
func IsLogged(err error) bool {
	var logged *loggedError

	return errors.As(err, &logged)
}

// Fetcher downloads a URL into a directory and returns the written path.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL, dir string) (string, error)
}

// PackageInstaller installs a package file.
type PackageInstaller interface {
	Install(ctx context.Context, path string) error
}

// Pipeline wires the download and install steps together.
type Pipeline struct {
	// URL is the artifact location.
	URL string
	// Dir receives the downloaded artifact.
	Dir string
	// Fetcher downloads the artifact.
	Fetcher Fetcher
	// Installer installs the downloaded artifact.
	Installer PackageInstaller
	// BusyCheck lists processes that may hold the package manager lock. Optional.
	BusyCheck func() ([]string, error)
}

// Run loads settings, builds the production pipeline and executes it.
// Returned errors are already logged; see IsLogged.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "vscode-installer")

	if opts == nil {
		opts = new(Options)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		logger.ErrorKV(ctx, "Unable to load settings", "error", err)
		return &loggedError{err: err}
	}

	if lvl, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(lvl)
	}

	var fetcherOptions []fetcher.Option
	if !cfg.DisableProgress {
		fetcherOptions = append(fetcherOptions, fetcher.WithProgress(os.Stderr))
	}

	pipeline := &Pipeline{
		URL:       DownloadURL,
		Dir:       os.TempDir(),
		Fetcher:   fetcher.New(fetcher.NewClient(cfg.ConnectTimeout), fetcherOptions...),
		Installer: installer.New(),
		BusyCheck: installer.BusyPackageManagers,
	}

	return pipeline.Run(ctx)
}

// Run downloads the artifact and installs it, stopping at the first error.
// The error is logged once before being returned.
func (p *Pipeline) Run(ctx context.Context) error {
	path, err := p.download(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Download failed", "error", err)
		return &loggedError{err: err}
	}

	if err = p.install(ctx, path); err != nil {
		logger.ErrorKV(ctx, "Installation failed", "error", err, "path", path)
		return &loggedError{err: err}
	}

	logger.Info(ctx, "VS Code installed")

	return nil
}

func (p *Pipeline) download(ctx context.Context) (string, error) {
	logger.InfoKV(ctx, "Downloading the latest VS Code", "url", p.URL)

	return p.Fetcher.Fetch(logger.WithName(ctx, "fetch"), p.URL, p.Dir)
}

func (p *Pipeline) install(ctx context.Context, path string) error {
	logger.InfoKV(ctx, "Installing VS Code", "path", path)

	p.warnIfBusy(ctx)

	return p.Installer.Install(ctx, path)
}

// warnIfBusy logs running package managers; dpkg itself decides whether to wait or fail.
func (p *Pipeline) warnIfBusy(ctx context.Context) {
	if p.BusyCheck == nil {
		return
	}

	busy, err := p.BusyCheck()
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)
		return
	}

	if len(busy) > 0 {
		logger.WarnKV(ctx, "Another package manager is running, dpkg may fail to acquire its lock",
			"processes", busy)
	}
}
