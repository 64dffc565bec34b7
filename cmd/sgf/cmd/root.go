// Package cmd holds the sgf command line: parse, demo, report and import.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sgf_service/internal/parser"
	"sgf_service/internal/render"
)

type rootOptions struct {
	verbose bool
	log     *zap.SugaredLogger
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{log: zap.NewNop().Sugar()}

	root := &cobra.Command{
		Use:           "sgf",
		Short:         "Parse SGF game records",
		Long:          "sgf reads SGF (Smart Game Format) collections and prints their game trees.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(opts.verbose)
			if err != nil {
				return err
			}
			opts.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.log.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newParseCmd(opts),
		newDemoCmd(opts),
		newReportCmd(opts),
		newImportCmd(opts),
	)
	return root
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "format", "f", render.FormatText,
		"output format ("+strings.Join(render.Formats, ", ")+")")
}

func addDepthFlag(cmd *cobra.Command, depth *int) {
	cmd.Flags().IntVar(depth, "max-depth", parser.DefaultMaxDepth,
		"maximum game-tree nesting, 0 for no limit")
}

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
