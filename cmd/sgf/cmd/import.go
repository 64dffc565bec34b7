package cmd

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"sgf_service/internal/adapters"
	"sgf_service/internal/bootstrap"
	"sgf_service/internal/repository"
	sgfUsecase "sgf_service/internal/usecase/sgf"
)

func newImportCmd(root *rootOptions) *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Parse every .sgf file below a directory and store the records",
		Long: `Walk a directory, parse every .sgf file and store each valid one in
MongoDB with its source cached in Redis. Files that fail to parse are listed
in the report and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap.Setup(cfgPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			mongoAdapter := adapters.NewAdapterMongo(cfg, root.log)
			if err = mongoAdapter.Init(ctx); err != nil {
				return err
			}
			defer mongoAdapter.Close(context.Background())

			redisAdapter := adapters.NewAdapterRedis(cfg, root.log)
			if err = redisAdapter.Init(ctx); err != nil {
				return err
			}
			defer redisAdapter.Close(context.Background())

			uc := sgfUsecase.NewSgfUseCase(
				repository.NewRecordRepository(root.log, mongoAdapter.Database),
				repository.NewSourceCache(redisAdapter.GetClient(), cfg.SourceTTL()),
				repository.NewSgfFiles(),
				root.log,
				cfg.MaxDepth,
				cfg.PageLimitRecords,
			)

			report, err := uc.ImportDir(ctx, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", ".env", "path to the .env configuration file")
	return cmd
}
