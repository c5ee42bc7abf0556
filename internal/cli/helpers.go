package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/histbin/bvget/internal/logger"
	"github.com/histbin/bvget/pkg/catalog"
	"github.com/histbin/bvget/pkg/config"
	"github.com/histbin/bvget/pkg/errors"
	"github.com/histbin/bvget/pkg/remote"
	"github.com/histbin/bvget/pkg/transfer"
)

// These variables will be set by the main package.
var (
	ConfigPath   *string
	Verbose      *bool
	NoColor      *bool
	OutputFormat *string
)

// transferFlags holds the transfer policy flags shared by browse and get.
type transferFlags struct {
	outDir      string
	extract     bool
	extractDir  string
	verify      bool
	noVerify    bool
	concurrency int
	retries     int
	proxy       string
	startDate   string
	endDate     string
}

// loadConfig loads the configuration honoring the global flags.
func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}
	if configPath == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default config path")
		}
		configPath = defaultPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if NoColor != nil && *NoColor {
		cfg.Settings.ColorOutput = false
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	logger.InitLogger(cfg.Settings.LogLevel)
	return cfg, nil
}

// getConfigPath returns the config file path the current invocation targets.
func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		return "config.yaml"
	}
	return path
}

// applyFlags overlays the command-line transfer flags onto loaded settings.
func (f *transferFlags) applyFlags(cfg *config.Config) {
	if f.outDir != "" {
		cfg.Settings.OutputDir = f.outDir
	}
	if f.extract {
		cfg.Settings.Extract = true
	}
	if f.extractDir != "" {
		cfg.Settings.ExtractDir = f.extractDir
	}
	if f.verify {
		cfg.Settings.VerifyChecksum = true
	}
	if f.noVerify {
		cfg.Settings.VerifyChecksum = false
	}
	if f.concurrency > 0 {
		cfg.Settings.Concurrency = f.concurrency
	}
	if f.retries >= 0 {
		cfg.Settings.Retries = f.retries
	}
	if f.proxy != "" {
		cfg.Settings.Proxy = f.proxy
	}
}

// dateRange parses the --start-date / --end-date flags.
func (f *transferFlags) dateRange() (catalog.DateRange, error) {
	var r catalog.DateRange
	if f.startDate != "" {
		start, err := time.Parse(time.DateOnly, f.startDate)
		if err != nil {
			return r, errors.Wrapf(errors.ErrDateRange, "invalid start date %q", f.startDate)
		}
		r.Start = start
	}
	if f.endDate != "" {
		end, err := time.Parse(time.DateOnly, f.endDate)
		if err != nil {
			return r, errors.Wrapf(errors.ErrDateRange, "invalid end date %q", f.endDate)
		}
		r.End = end
	}
	if err := r.Validate(); err != nil {
		return r, err
	}
	return r, nil
}

// newWalker builds the catalog lister for one invocation.
func newWalker(client *remote.Client, retries int) catalog.Lister {
	return catalog.NewWalker(client, retries)
}

// buildClient constructs the remote client from settings.
func buildClient(cfg *config.Config) *remote.Client {
	return remote.New(remote.Options{
		ListingURL:  cfg.Settings.ListingURL,
		DownloadURL: cfg.Settings.DownloadURL,
		Timeout:     cfg.Settings.HTTPTimeout,
		Proxy:       cfg.Settings.Proxy,
	})
}

// transferConfig maps settings to the engine's session config.
func transferConfig(cfg *config.Config) transfer.Config {
	return transfer.Config{
		Concurrency:    cfg.Settings.Concurrency,
		Retries:        cfg.Settings.Retries,
		VerifyChecksum: cfg.Settings.VerifyChecksum,
		Extract:        cfg.Settings.Extract,
		OutDir:         cfg.Settings.OutputDir,
		ExtractDir:     cfg.Settings.ExtractDir,
	}
}

// resolveFiles lists the FILE children of prefix and applies the date filter.
// Filenames the filter could not apply to are logged so the broadened
// selection is visible.
func resolveFiles(ctx context.Context, lister catalog.Lister, prefix string, dates catalog.DateRange) ([]catalog.Node, error) {
	children, err := lister.ListChildren(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var files []catalog.Node
	for _, child := range children {
		if child.Kind == catalog.KindFile {
			files = append(files, child)
		}
	}

	files, unfiltered := catalog.FilterByDate(files, dates)
	if len(unfiltered) > 0 {
		logger.Warn("date filter did not apply to some files, keeping them", logger.Fields{
			"files": strings.Join(unfiltered, ", "),
		})
	}
	if len(files) == 0 {
		return nil, errors.Wrapf(errors.ErrNoFiles, "prefix %q", prefix)
	}
	return files, nil
}

// descriptorsFor converts resolved file nodes to transfer descriptors.
func descriptorsFor(files []catalog.Node, checksumSuffix string) []transfer.Descriptor {
	descriptors := make([]transfer.Descriptor, 0, len(files))
	for _, file := range files {
		descriptors = append(descriptors, transfer.NewDescriptor(file.Key, file.Size, checksumSuffix))
	}
	return descriptors
}

// runTransfer drives the engine over the descriptors and prints the summary.
// A session with failures, mismatches, or skipped files returns
// ErrTransferIncomplete so the process exits non-zero.
func runTransfer(ctx context.Context, runner transfer.Runner, descriptors []transfer.Descriptor, cfg transfer.Config) error {
	result, err := runner.Run(ctx, descriptors, cfg)
	if err != nil {
		return errors.Wrap(err, "transfer session failed")
	}

	logger.Successf("done: %d total, %d succeeded, %d failed, %d mismatched, %d skipped",
		result.Total, result.Succeeded, result.Failed, result.Mismatched, result.Skipped)

	if !result.Clean() {
		return errors.Wrapf(errors.ErrTransferIncomplete,
			"%d failed, %d mismatched, %d skipped", result.Failed, result.Mismatched, result.Skipped)
	}
	return nil
}

// progressHooks logs one line per completed file.
func progressHooks() transfer.Hooks {
	return transfer.Hooks{
		OnEvent: func(event transfer.Event) {
			if event.Phase != transfer.PhaseDone {
				logger.Debug("transfer progress", logger.Fields{"phase": string(event.Phase), "key": event.Key})
				return
			}
			fields := logger.Fields{"key": event.Key, "status": event.Status.String()}
			if event.Message != "" {
				fields["detail"] = event.Message
			}
			if event.Status == transfer.StatusSucceeded {
				logger.Info("file done", fields)
			} else {
				logger.Warn("file done", fields)
			}
		},
	}
}

// formatSize renders a byte count for the ls --long column.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
