package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sgf_service/internal/parser"
	"sgf_service/internal/render"
)

// demoGame is a small CGoban record with nested variations, an empty node
// and an escaped bracket in a comment.
const demoGame = `(;GM[1]FF[4]CA[UTF-8]AP[CGoban:3]ST[2]
RU[Japanese]SZ[19]KM[6.50]
PW[ alice ]PB[bob ]
(;B[pd]
(;W[qf]
;B[nc]
(;W[qc]
;B[qd]C[comment [some comment\]])
(;W[qd]
;B[qc]
;W[rc]TR[qd]
;B[qe]
;
;W[rd]
;B[pe]))
(;W[qc]
;B[qd]
;W[pc]TR[qc][pd][qd]
;B[od]LB[pc:D][qc:B][pd:A][qd:C])
(;W[oc]
;B[pc]
;W[mc]))
(;B[qg]))`

func newDemoCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Parse a built-in sample game and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := parser.Parse(demoGame)
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}
			return render.Write(cmd.OutOrStdout(), format, collection)
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}
