package cli

import (
	"bufio"
	"context"
	"fmt"

	"github.com/histbin/bvget/internal/prompt"
	"github.com/histbin/bvget/pkg/catalog"
	"github.com/histbin/bvget/pkg/transfer"
	"github.com/spf13/cobra"
)

// browseFlags pre-seed the drilldown levels so a fully-flagged invocation
// never prompts for navigation.
type browseFlags struct {
	category    string
	granularity string
	kind        string
	symbol      string
	interval    string
}

// NewBrowseCmd creates the browse command.
func NewBrowseCmd() *cobra.Command {
	var flags transferFlags
	var seeds browseFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively drill down to a set of files and download them",
		Long: `Browse the remote catalog level by level, starting at the configured
root prefix, until a container of downloadable files is reached. Levels can
be pre-seeded with flags so navigation prompts are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, &flags, &seeds)
		},
	}

	registerTransferFlags(cmd, &flags)
	cmd.Flags().StringVar(&seeds.category, "category", "", "Pre-select the category level (e.g. spot)")
	cmd.Flags().StringVar(&seeds.granularity, "granularity", "", "Pre-select the time granularity (e.g. daily)")
	cmd.Flags().StringVar(&seeds.kind, "kind", "", "Pre-select the symbol kind (e.g. klines)")
	cmd.Flags().StringVar(&seeds.symbol, "symbol", "", "Pre-select the trading pair (e.g. BTCUSDT)")
	cmd.Flags().StringVar(&seeds.interval, "interval", "", "Pre-select the sub-interval (e.g. 1m)")

	return cmd
}

func runBrowse(cmd *cobra.Command, flags *transferFlags, seeds *browseFlags) error {
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
	prompter := prompt.New(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())

	prefix, err := drillDown(ctx, walker, prompter, cfg.Settings.RootPrefix, seeds.levels())
	if err != nil {
		return err
	}

	if dates.IsZero() {
		dates, err = promptDateRange(prompter)
		if err != nil {
			return err
		}
	}

	files, err := resolveFiles(ctx, walker, prefix, dates)
	if err != nil {
		return err
	}

	confirmed, err := prompter.Confirm(fmt.Sprintf("Download %d files from %s?", len(files), prefix))
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}

	descriptors := descriptorsFor(files, cfg.Settings.ChecksumSuffix)
	engine := transfer.NewEngine(client, progressHooks())
	return runTransfer(ctx, engine, descriptors, transferConfig(cfg))
}

// levels returns the pre-seeded drilldown answers in navigation order.
func (s *browseFlags) levels() []string {
	return []string{s.category, s.granularity, s.kind, s.symbol, s.interval}
}

// drillDown descends from root while the listed children are containers,
// answering from seeds first and prompting once those run out. Kinds with a
// sub-interval level simply present one more container menu; the walker makes
// no distinction.
func drillDown(ctx context.Context, lister catalog.Lister, prompter *prompt.Prompter, root string, seeds []string) (string, error) {
	prefix := root
	for {
		children, err := lister.ListChildren(ctx, prefix)
		if err != nil {
			return "", err
		}

		var containers []catalog.Node
		for _, child := range children {
			if child.IsContainer() {
				containers = append(containers, child)
			}
		}
		if len(containers) == 0 {
			// Reached a container of files (or an empty one; resolution
			// reports that case).
			return prefix, nil
		}

		next, seeds2, err := pickContainer(prompter, prefix, containers, seeds)
		if err != nil {
			return "", err
		}
		prefix = next
		seeds = seeds2
	}
}

// pickContainer chooses the next container, consuming a seed when one
// matches, otherwise presenting a menu.
func pickContainer(prompter *prompt.Prompter, prefix string, containers []catalog.Node, seeds []string) (string, []string, error) {
	for len(seeds) > 0 {
		seed := seeds[0]
		seeds = seeds[1:]
		if seed == "" {
			continue
		}
		for _, container := range containers {
			if container.Name() == seed {
				return container.Key, seeds, nil
			}
		}
		return "", nil, fmt.Errorf("no child %q under %s", seed, prefix)
	}

	names := make([]string, len(containers))
	for i, container := range containers {
		names[i] = container.Name()
	}
	choice, err := prompter.Menu(fmt.Sprintf("Contents of %s:", prefix), names)
	if err != nil {
		return "", nil, err
	}
	return containers[choice].Key, seeds, nil
}

// promptDateRange asks for the optional inclusive date range.
func promptDateRange(prompter *prompt.Prompter) (catalog.DateRange, error) {
	var r catalog.DateRange
	start, ok, err := prompter.Date("Start date")
	if err != nil {
		return r, err
	}
	if ok {
		r.Start = start
	}
	end, ok, err := prompter.Date("End date")
	if err != nil {
		return r, err
	}
	if ok {
		r.End = end
	}
	if err := r.Validate(); err != nil {
		return r, err
	}
	return r, nil
}
