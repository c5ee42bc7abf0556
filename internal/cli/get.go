package cli

import (
	"fmt"

	"github.com/histbin/bvget/pkg/transfer"
	"github.com/spf13/cobra"
)

// NewGetCmd creates the get command.
func NewGetCmd() *cobra.Command {
	var flags transferFlags
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "get PREFIX",
		Short: "Download all files under a container prefix",
		Long: `Download every file directly under the given container prefix,
optionally filtered by a date range derived from the filenames.

Example:
  bvget get data/spot/daily/klines/BTCUSDT/1m/ --start-date 2023-01-10 --end-date 2023-01-20 --extract`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args[0], &flags, dryRun)
		},
	}

	registerTransferFlags(cmd, &flags)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the resolved file list without transferring")

	return cmd
}

func runGet(cmd *cobra.Command, prefix string, flags *transferFlags, dryRun bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flags.applyFlags(cfg)

	dates, err := flags.dateRange()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client := buildClient(cfg)
	walker := newWalker(client, cfg.Settings.Retries)

	files, err := resolveFiles(ctx, walker, prefix, dates)
	if err != nil {
		return err
	}

	if dryRun {
		for _, file := range files {
			fmt.Fprintln(cmd.OutOrStdout(), file.Key)
		}
		return nil
	}

	descriptors := descriptorsFor(files, cfg.Settings.ChecksumSuffix)
	engine := transfer.NewEngine(client, progressHooks())
	return runTransfer(ctx, engine, descriptors, transferConfig(cfg))
}

// registerTransferFlags wires the shared transfer policy flags onto cmd.
func registerTransferFlags(cmd *cobra.Command, flags *transferFlags) {
	cmd.Flags().StringVar(&flags.outDir, "out", "", "Destination directory (default from config)")
	cmd.Flags().BoolVar(&flags.extract, "extract", false, "Extract downloaded archives")
	cmd.Flags().StringVar(&flags.extractDir, "extract-dir", "", "Extraction root directory")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "Verify checksums against the sibling digest objects")
	cmd.Flags().BoolVar(&flags.noVerify, "no-verify", false, "Skip checksum verification")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "Maximum concurrent downloads")
	cmd.Flags().IntVar(&flags.retries, "retries", -1, "Additional fetch attempts per file")
	cmd.Flags().StringVar(&flags.proxy, "proxy", "", "Proxy URL for all requests")
	cmd.Flags().StringVar(&flags.startDate, "start-date", "", "Inclusive start of the filename date filter (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.endDate, "end-date", "", "Inclusive end of the filename date filter (YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("verify", "no-verify")
}
