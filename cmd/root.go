// Package cmd provides the root command and CLI setup for pycforge.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pycforge.dev/pkg/pycforge/internal/adapter"
	"pycforge.dev/pkg/pycforge/internal/controller"
)

var fsAdapter adapter.SourceFSAdapter
var processRunner adapter.ProcessRunner
var engine adapter.ContainerEngine
var rewriteTool adapter.RewriteTool
var runStore adapter.RunReportStore
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that write
// run reports.
var reportsOutputDirFlag string

// verboseFlag raises the log level to debug when set.
var verboseFlag bool

// logFileFlag overrides the log file location.
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	processRunner = adapter.NewLocalProcessRunner(time.Duration(viper.GetInt(engineTimeoutKey)) * time.Second)
	engine = adapter.NewDockerEngine(processRunner, viper.GetString(engineBinaryKey))
	rewriteTool = adapter.NewThreeToTwoTool(processRunner, viper.GetString(rewritePythonKey), viper.GetString(rewriteBinaryKey))
	runStore = adapter.NewRunReportStore()
}

const rootLongDescription = `Pycforge compiles a directory of Python source files into version-specific
bytecode, once per target interpreter version, inside an isolated Docker
build environment per version. Legacy targets get their sources rewritten
to a syntax their runtime can parse before compilation.`

const compileLongDescription = `Compile every top-level Python file of a source directory for all
configured interpreter versions.

With no argument the source directory is prompted for interactively. Each
version produces a flat python<version>libs directory next to the sources.
A version that fails is skipped; the remaining versions still run.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pycforge",
		Short: "Version-targeted Python bytecode compiler",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for run reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file location")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
