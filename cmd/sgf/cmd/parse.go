package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"sgf_service/internal/domain/sgf"
	"sgf_service/internal/parser"
	"sgf_service/internal/render"
	"sgf_service/microservices/rpc"
)

type parseOptions struct {
	format   string
	maxDepth int
	remote   string
	timeout  time.Duration
}

func newParseCmd(root *rootOptions) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse an SGF file and print its game trees",
		Long: `Parse an SGF collection and print it.

Reads the named file, or stdin when the argument is "-" or missing.
With --remote the text is sent to a running parser service instead; the
service then applies its own depth limit and --max-depth is rejected.

Examples:
  sgf parse game.sgf
  sgf parse -f yaml game.sgf
  cat game.sgf | sgf parse --remote localhost:8082`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.remote != "" && cmd.Flags().Changed("max-depth") {
				return fmt.Errorf("--max-depth cannot be combined with --remote, the service applies its own MAX_DEPTH")
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var collection *sgf.Collection
			if opts.remote != "" {
				root.log.Debugf("sending %d bytes to %s", len(text), opts.remote)
				collection, err = parseRemote(cmd.Context(), opts.remote, opts.timeout, text)
			} else {
				collection, err = parser.Parse(text, parser.WithMaxDepth(opts.maxDepth))
			}
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}

			root.log.Debugw("parsed collection", "trees", len(collection.Trees))
			return render.Write(cmd.OutOrStdout(), opts.format, collection)
		},
	}

	addFormatFlag(cmd, &opts.format)
	addDepthFlag(cmd, &opts.maxDepth)
	cmd.Flags().StringVar(&opts.remote, "remote", "", "address of a parser gRPC service (its MAX_DEPTH applies)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "timeout for --remote calls")
	return cmd
}

func parseRemote(ctx context.Context, addr string, timeout time.Duration, text string) (*sgf.Collection, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	collection, err := rpc.NewParserServiceClient(conn).Parse(ctx, text)
	if err != nil {
		if st, ok := status.FromError(err); ok {
			return nil, fmt.Errorf("%s", st.Message())
		}
		return nil, err
	}
	return collection, nil
}
