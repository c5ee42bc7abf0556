package transfer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/histbin/bvget/internal/logger"
	"github.com/histbin/bvget/pkg/archive"
	"github.com/histbin/bvget/pkg/checksum"
	"github.com/histbin/bvget/pkg/errors"
	"github.com/histbin/bvget/pkg/fsutil"
	"github.com/histbin/bvget/pkg/remote"
)

// Defaults applied when Config leaves the knobs unset.
const (
	DefaultConcurrency = 5
	DefaultRetries     = 3

	extractedDirSuffix = "_extracted"
)

// Engine runs transfer sessions. It is safe to reuse across runs.
type Engine struct {
	client  Fetcher
	archive *archive.Manager
	hooks   Hooks
	hooksMu sync.Mutex
}

// NewEngine creates an Engine fetching through client. hooks may be zero.
func NewEngine(client Fetcher, hooks Hooks) *Engine {
	return &Engine{
		client:  client,
		archive: archive.NewManager(),
		hooks:   hooks,
	}
}

// Run transfers every descriptor under cfg's policy and returns the session
// result. Per-file failures never abort the run; they are recorded in that
// file's outcome. The outcome slice preserves descriptor order regardless of
// completion order. Cancelling ctx stops admitting new files and new retry
// attempts; files never started report StatusSkipped.
func (e *Engine) Run(ctx context.Context, descriptors []Descriptor, cfg Config) (*Result, error) {
	if cfg.OutDir == "" {
		return nil, errors.Wrap(errors.ErrConfigValidation, "output directory is not set")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Retries < 0 {
		cfg.Retries = DefaultRetries
	}
	if err := fsutil.EnsureDir(cfg.OutDir); err != nil {
		return nil, errors.Wrap(err, "could not create output directory")
	}

	result := &Result{
		SessionID: uuid.NewString(),
		StartedAt: time.Now(),
		Outcomes:  make([]Outcome, len(descriptors)),
		Total:     len(descriptors),
	}
	logger.Info("transfer session started", logger.Fields{
		"session": result.SessionID,
		"files":   len(descriptors),
		"workers": cfg.Concurrency,
	})

	tasks := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tasks {
				desc := descriptors[idx]
				if ctx.Err() != nil {
					result.Outcomes[idx] = Outcome{
						Descriptor: desc,
						Status:     StatusSkipped,
						Err:        errors.Wrap(ctx.Err(), "session cancelled"),
					}
					e.emit(Event{Phase: PhaseDone, Key: desc.Key, Status: StatusSkipped})
					continue
				}
				outcome := e.transferOne(ctx, desc, cfg, result.SessionID)
				result.Outcomes[idx] = outcome
				e.emit(Event{Phase: PhaseDone, Key: desc.Key, Status: outcome.Status, Message: outcomeMessage(outcome)})
			}
		}()
	}

	for idx := range descriptors {
		tasks <- idx
	}
	close(tasks)
	wg.Wait()

	result.FinishedAt = time.Now()
	for _, outcome := range result.Outcomes {
		switch outcome.Status {
		case StatusSucceeded:
			result.Succeeded++
		case StatusFailed:
			result.Failed++
		case StatusChecksumMismatch:
			result.Mismatched++
		case StatusSkipped:
			result.Skipped++
		}
	}

	logger.Info("transfer session finished", logger.Fields{
		"session":    result.SessionID,
		"succeeded":  result.Succeeded,
		"failed":     result.Failed,
		"mismatched": result.Mismatched,
		"skipped":    result.Skipped,
	})
	return result, nil
}

// transferOne runs the fetch, verify, extract pipeline for one descriptor.
// The worker holds its pool slot for the whole pipeline, so a slow extraction
// delays admission of the next file; that coupling is deliberate.
func (e *Engine) transferOne(ctx context.Context, desc Descriptor, cfg Config, session string) Outcome {
	outcome := Outcome{Descriptor: desc}
	localPath := filepath.Join(cfg.OutDir, filepath.FromSlash(desc.Key))

	// ctx gates retries; the attempt itself runs detached so cancellation
	// never truncates a write mid-flight. The client timeout still bounds it.
	attemptCtx := context.WithoutCancel(ctx)

	e.emit(Event{Phase: PhaseFetch, Key: desc.Key})
	attempts, err := remote.Do(ctx, cfg.Retries, func(context.Context) error {
		return e.fetchTo(attemptCtx, desc.Key, localPath)
	})
	outcome.Attempts = attempts
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = errors.Wrapf(err, "fetch %s", desc.Key)
		logger.Warn("fetch failed", logger.Fields{"session": session, "key": desc.Key, "attempts": attempts, "error": err.Error()})
		return outcome
	}
	outcome.LocalPath = localPath

	if cfg.VerifyChecksum && desc.ChecksumKey != "" {
		e.emit(Event{Phase: PhaseVerify, Key: desc.Key})
		match, checksumPath, err := e.verify(ctx, attemptCtx, desc, localPath, cfg.Retries)
		outcome.ChecksumPath = checksumPath
		if err != nil {
			outcome.Status = StatusFailed
			outcome.Err = errors.Wrapf(err, "verify %s", desc.Key)
			return outcome
		}
		if !match {
			// The mismatched file is kept on disk for inspection.
			outcome.Status = StatusChecksumMismatch
			outcome.Err = errors.Wrapf(errors.ErrChecksumMismatch, "%s", desc.Key)
			logger.Warn("checksum mismatch", logger.Fields{"session": session, "key": desc.Key, "path": localPath})
			return outcome
		}
	}

	if cfg.Extract {
		e.emit(Event{Phase: PhaseExtract, Key: desc.Key})
		extractDir := extractDirFor(desc.Key, localPath, cfg)
		entries, err := e.archive.ExtractAll(attemptCtx, localPath, extractDir)
		if err != nil {
			// The archive stays on disk; only the extraction step failed.
			outcome.Status = StatusFailed
			outcome.Err = errors.Wrapf(err, "extract %s", desc.Key)
			return outcome
		}
		outcome.Extracted = entries
	}

	outcome.Status = StatusSucceeded
	logger.Debug("file transferred", logger.Fields{"session": session, "key": desc.Key, "attempts": attempts})
	return outcome
}

// fetchTo streams key into a temporary file next to localPath and swaps it
// in only after the fetch completed without error. A failed attempt removes
// the partial artifact so the next attempt starts clean.
func (e *Engine) fetchTo(ctx context.Context, key, localPath string) error {
	if err := fsutil.EnsureFileDir(localPath); err != nil {
		return errors.Wrap(err, "could not create destination directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(localPath), ".bvget-*.tmp")
	if err != nil {
		return errors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()

	if err := e.client.FetchFile(ctx, key, tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "could not sync file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "could not close file")
	}
	if err := fsutil.Move(tmpPath, localPath); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "could not finalize file")
	}
	return nil
}

// verify fetches the digest sibling under the shared retry policy, persists
// the digest line next to the download, and compares digests.
func (e *Engine) verify(ctx, attemptCtx context.Context, desc Descriptor, localPath string, retries int) (bool, string, error) {
	var line string
	_, err := remote.Do(ctx, retries, func(context.Context) error {
		text, err := e.client.FetchText(attemptCtx, desc.ChecksumKey)
		if err != nil {
			return err
		}
		line = text
		return nil
	})
	if err != nil {
		return false, "", errors.Wrapf(err, "fetch checksum %s", desc.ChecksumKey)
	}

	checksumPath := localPath + desc.checksumSuffix()
	if err := os.WriteFile(checksumPath, []byte(line), fsutil.FileModeDefault); err != nil {
		return false, "", errors.Wrap(err, "could not persist checksum")
	}

	match, err := checksum.Verify(localPath, line)
	if err != nil {
		return false, checksumPath, err
	}
	return match, checksumPath, nil
}

// extractDirFor resolves the extraction directory for one archive: a sibling
// "<name>_extracted" directory by default, or the mirrored key path beneath
// cfg.ExtractDir when set.
func extractDirFor(key, localPath string, cfg Config) string {
	if cfg.ExtractDir == "" {
		return trimArchiveExt(localPath) + extractedDirSuffix
	}
	return filepath.Join(cfg.ExtractDir, trimArchiveExt(filepath.FromSlash(key))+extractedDirSuffix)
}

func trimArchiveExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// emit delivers one progress event; events are serialized so the callback
// never runs concurrently with itself.
func (e *Engine) emit(event Event) {
	if e.hooks.OnEvent == nil {
		return
	}
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	e.hooks.OnEvent(event)
}

func outcomeMessage(outcome Outcome) string {
	if outcome.Err != nil {
		return outcome.Err.Error()
	}
	return ""
}
