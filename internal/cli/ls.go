package cli

import (
	"fmt"
	"time"

	"github.com/histbin/bvget/pkg/catalog"
	"github.com/spf13/cobra"
)

// NewLsCmd creates the ls command.
func NewLsCmd() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "ls [PREFIX]",
		Short: "List the immediate children of a prefix",
		Long: `List the immediate children of a container prefix, one per line.
Containers are suffixed with a slash. Defaults to the configured root prefix.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}
			return runLs(cmd, prefix, long)
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show size and last-modified columns for files")

	return cmd
}

func runLs(cmd *cobra.Command, prefix string, long bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if prefix == "" {
		prefix = cfg.Settings.RootPrefix
	}

	client := buildClient(cfg)
	walker := newWalker(client, cfg.Settings.Retries)

	children, err := walker.ListChildren(cmd.Context(), prefix)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, child := range children {
		name := child.Name()
		if child.IsContainer() {
			name += "/"
		}
		if !long {
			fmt.Fprintln(out, name)
			continue
		}
		if child.Kind == catalog.KindFile {
			modified := ""
			if !child.LastModified.IsZero() {
				modified = child.LastModified.Format(time.RFC3339)
			}
			fmt.Fprintf(out, "%12s  %-20s  %s\n", formatSize(child.Size), modified, name)
		} else {
			fmt.Fprintf(out, "%12s  %-20s  %s\n", "-", "-", name)
		}
	}
	return nil
}
