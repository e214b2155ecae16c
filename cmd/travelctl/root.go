package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"travelbot/internal/catalog"
	"travelbot/internal/config"
	"travelbot/internal/repository"
	"travelbot/internal/service"
	"travelbot/internal/utils"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
)

type options struct {
	verbose bool
	asJSON  bool
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "travelctl",
		Short:         "Run travel searches and slot parsers from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			_, err := utils.InitLogger("development", level, "console")
			return err
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log provider calls")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print raw results as JSON")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall command timeout")

	root.AddCommand(
		newFlightsCmd(opts),
		newHotelsCmd(opts),
		newStatusCmd(opts),
		newParseDateCmd(),
		newVersionCmd(),
	)
	return root
}

// env is what every provider command needs
type env struct {
	cfg        *config.Config
	catalog    *catalog.Catalog
	providers  *service.Providers
	normalizer *service.SlotNormalizer
}

func loadEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	refs := catalog.Default()
	if cfg.PostgreSQL.Enabled {
		repo, err := repository.NewPostgresRepository(cfg.GetPostgreSQLDSN(), 2, 1)
		if err != nil {
			zap.L().Warn("Reference database unavailable", zap.Error(err))
		} else {
			defer repo.Close()
			if _, _, err := repo.OverlayCatalog(ctx, refs); err != nil {
				zap.L().Warn("Reference overlay skipped", zap.Error(err))
			}
		}
	}

	return &env{
		cfg:        cfg,
		catalog:    refs,
		providers:  service.NewProviders(cfg, refs, nil),
		normalizer: service.NewSlotNormalizer(refs),
	}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the travelctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "travelctl %s (%s)\n", Version, GitCommit)
		},
	}
}
