package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/vscode-installer/internal/config"
	"github.com/oshokin/vscode-installer/internal/logger"
	"github.com/oshokin/vscode-installer/internal/service/install"
	"github.com/oshokin/vscode-installer/internal/version"
)

const configFlag = "config"

// newRootCmd builds the command that downloads the latest VS Code package and installs it.
func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "vscode-installer",
		Short: "Download the latest VS Code .deb and install it with dpkg",
		Long: "Download the latest stable VS Code build for linux-deb-x64 into the temporary directory " +
			"and install it with `sudo dpkg -i`.\n\n" +
			"The package is always the newest release: it is not pinned to a version " +
			"and its checksum is not verified.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := new(install.Options)
			if cmd.Flags().Changed(configFlag) {
				options.ConfigPath = configPath
			}

			return install.Run(ctx, options)
		},
	}

	rootCmd.Flags().StringVarP(&configPath, configFlag, "c", config.DefaultConfigFilename, "path to the optional settings file")
	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}

// execute runs rootCmd and logs errors that the install run has not logged itself.
func execute(ctx context.Context, rootCmd *cobra.Command) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !install.IsLogged(err) {
		logger.ErrorKV(logger.WithName(ctx, "vscode-installer"), "Command failed", "error", err)
	}

	return err
}

// Execute runs the vscode-installer CLI and exits with status 1 on error.
func Execute() {
	if err := execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}
