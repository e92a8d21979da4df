package cli

import (
	"github.com/spf13/cobra"

	"github.com/pursuitlab/copnumber/internal/api"
	"github.com/pursuitlab/copnumber/pkg/config"
	"github.com/pursuitlab/copnumber/pkg/store"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the solver HTTP API",
		Long: `Serve hosts the solver over HTTP: POST /v1/solve accepts a matrix and
cop count, GET /v1/results/{key} returns stored verdicts, and /healthz
reports liveness. The server uses the configured verdict store, so a
redis or mongo backend shares results between instances.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			st, err := store.New(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			return api.New(addr, *cfg, st, logger).Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
