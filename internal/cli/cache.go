package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pursuitlab/copnumber/pkg/config"
	"github.com/pursuitlab/copnumber/pkg/graph"
	"github.com/pursuitlab/copnumber/pkg/store"
)

func newCacheCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the verdict store",
	}

	cmd.AddCommand(newCacheGetCmd(cfg))
	cmd.AddCommand(newCacheDropCmd(cfg))
	return cmd
}

func newCacheGetCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "get <graph_file> <k>",
		Short: "Show the stored verdict for a graph and cop count",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key, st, err := cacheTarget(cmd, args, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			rec, err := st.Get(ctx, key)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func newCacheDropCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <graph_file> <k>",
		Short: "Remove the stored verdict for a graph and cop count",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key, st, err := cacheTarget(cmd, args, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.Delete(ctx, key); err != nil {
				return err
			}
			printSuccess("dropped verdict %s", key)
			return nil
		},
	}
}

func cacheTarget(cmd *cobra.Command, args []string, cfg *config.Config) (string, store.Store, error) {
	g, err := graph.Load(args[0])
	if err != nil {
		return "", nil, err
	}
	k, err := parseCopCount(args[1])
	if err != nil {
		return "", nil, err
	}
	st, err := store.New(cmd.Context(), cfg.Store)
	if err != nil {
		return "", nil, err
	}
	return store.Key(g, k), st, nil
}
