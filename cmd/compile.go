package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pycforge.dev/pkg/pycforge/internal/domain"
	m "pycforge.dev/pkg/pycforge/internal/model"
)

// newOrchestrator builds the pipeline for one run. Tests swap it for a
// fake so the command can be exercised without a container engine.
var newOrchestrator = func(cfg domain.Config) domain.Orchestrator {
	return domain.NewOrchestrator(cfg, fsAdapter, engine, rewriteTool, ui)
}

// compileCmd represents the compile command.
var compileCmd = newCompileCmd()

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile [dir]",
		Short: "Compile Python sources for every configured version",
		Long:  compileLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			sourceDir, err := resolveSourceDir(cmd, args)
			if err != nil {
				return err
			}

			versions, err := configuredVersions()
			if err != nil {
				return err
			}

			cfg := domain.NewConfig(sourceDir, versions)
			cfg.ImagePrefix = viper.GetString(imagePrefixKey)
			cfg.SnapshotDirName = viper.GetString(snapshotDirKey)

			summary, err := newOrchestrator(cfg).CompileAll(cmd.Context())
			if err != nil {
				return err
			}

			if err := ui.DisplaySummary(summary); err != nil {
				return err
			}

			reportsDir := m.Path(viper.GetString(outputFlagName))
			if err := runStore.SaveSummary(reportsDir, summary); err != nil {
				slog.Warn("failed to save run report", "dir", reportsDir, "error", err)
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

// resolveSourceDir takes the source directory from the arguments or prompts
// for it, then validates and resolves it to an absolute path. An invalid
// path is the one process-fatal error of a run.
func resolveSourceDir(cmd *cobra.Command, args []string) (m.Path, error) {
	var dir string

	if len(args) > 0 {
		dir = args[0]
	} else {
		prompted, err := promptSourceDir(cmd)
		if err != nil {
			return "", err
		}

		dir = prompted
	}

	dir = strings.TrimSpace(dir)

	info, err := fsAdapter.FileInfo(m.Path(dir))
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("invalid directory path: %q", dir)
	}

	return fsAdapter.AbsPath(m.Path(dir))
}

func promptSourceDir(cmd *cobra.Command) (string, error) {
	cmd.Print("Enter the directory containing Python files to compile: ")

	reader := bufio.NewReader(cmd.InOrStdin())

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read source directory: %w", err)
	}

	return line, nil
}

// configuredVersions returns the version table: the config override when
// set, the built-in table otherwise.
func configuredVersions() ([]m.VersionDescriptor, error) {
	if !viper.IsSet(versionsKey) {
		return m.DefaultVersions(), nil
	}

	var versions []m.VersionDescriptor
	if err := viper.UnmarshalKey(versionsKey, &versions); err != nil {
		return nil, fmt.Errorf("parse configured versions: %w", err)
	}

	return versions, nil
}
