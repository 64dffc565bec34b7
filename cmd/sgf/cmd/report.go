package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sgf_service/internal/parser"
	"sgf_service/internal/render"
)

func newReportCmd(root *rootOptions) *cobra.Command {
	var (
		output   string
		maxDepth int
	)

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Write a PDF report of an SGF file's game trees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			collection, err := parser.Parse(text, parser.WithMaxDepth(maxDepth))
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}

			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pdf"
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err = render.WritePDF(f, filepath.Base(args[0]), collection); err != nil {
				f.Close()
				return err
			}
			if err = f.Close(); err != nil {
				return err
			}

			root.log.Infof("report written to %s", output)
			fmt.Fprintf(cmd.OutOrStdout(), "PDF created: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "PDF path (default: input name with .pdf)")
	addDepthFlag(cmd, &maxDepth)
	return cmd
}
