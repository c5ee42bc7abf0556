// Package transfer implements the concurrent transfer engine: a bounded
// worker pool that downloads a batch of remote files with per-file retry,
// optional checksum verification against the sibling digest object, and
// optional ZIP extraction, producing one outcome per descriptor.
package transfer

import (
	"path"
	"strings"
	"time"
)

// Status is the terminal state of one file transfer.
type Status int

const (
	// StatusSucceeded means fetch and all requested post-processing passed.
	StatusSucceeded Status = iota
	// StatusFailed means fetch exhausted its retries or a post-processing
	// step other than verification failed.
	StatusFailed
	// StatusChecksumMismatch means the file downloaded but its digest did
	// not match the checksum sibling. The file is kept for inspection.
	StatusChecksumMismatch
	// StatusSkipped means the session was cancelled before the file's first
	// attempt started.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusChecksumMismatch:
		return "checksum mismatch"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Descriptor identifies one remote file queued for transfer.
type Descriptor struct {
	// Key is the object's full path in the bucket. Never empty.
	Key string
	// Size is the listed object size, or 0 when unknown.
	Size int64
	// ChecksumKey is the sibling digest object's key, empty when the file
	// has no checksum sibling.
	ChecksumKey string
}

// NewDescriptor builds a Descriptor for key, deriving the checksum sibling
// key from checksumSuffix. An empty suffix leaves ChecksumKey unset.
func NewDescriptor(key string, size int64, checksumSuffix string) Descriptor {
	desc := Descriptor{Key: key, Size: size}
	if checksumSuffix != "" {
		desc.ChecksumKey = key + checksumSuffix
	}
	return desc
}

// Filename returns the last path segment of the descriptor's key.
func (d Descriptor) Filename() string {
	return path.Base(d.Key)
}

// checksumSuffix recovers the suffix the sibling key appends to the data key.
func (d Descriptor) checksumSuffix() string {
	if d.ChecksumKey == "" || !strings.HasPrefix(d.ChecksumKey, d.Key) {
		return ""
	}
	return strings.TrimPrefix(d.ChecksumKey, d.Key)
}

// Outcome is the immutable result of one file's transfer pipeline.
type Outcome struct {
	Descriptor Descriptor
	Status     Status
	// Attempts is the number of fetch attempts made, between 1 and
	// retries+1, or 0 for a skipped file.
	Attempts int
	// LocalPath is the finalized download path, set once fetch succeeded.
	LocalPath string
	// ChecksumPath is where the fetched digest line was persisted.
	ChecksumPath string
	// Extracted lists the paths written by extraction, in archive order.
	Extracted []string
	// Err carries the failure detail for failure-like statuses.
	Err error
}

// Config is the immutable policy for one engine run.
type Config struct {
	// Concurrency bounds the number of in-flight file pipelines.
	Concurrency int
	// Retries is the number of additional fetch attempts after the first.
	Retries int
	// VerifyChecksum enables digest verification for descriptors that carry
	// a checksum sibling key.
	VerifyChecksum bool
	// Extract enables ZIP expansion after a healthy fetch and verify.
	Extract bool
	// OutDir is the destination root; each file lands at its key path
	// mirrored beneath it.
	OutDir string
	// ExtractDir overrides the default per-archive extraction directory.
	ExtractDir string
}

// Result aggregates a finished session.
type Result struct {
	SessionID  string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome

	Total      int
	Succeeded  int
	Failed     int
	Mismatched int
	Skipped    int
}

// Clean reports whether every outcome succeeded.
func (r *Result) Clean() bool {
	return r.Failed == 0 && r.Mismatched == 0 && r.Skipped == 0
}

// Phase identifies a pipeline step in progress events.
type Phase string

// Pipeline phases reported through Hooks.
const (
	PhaseFetch   Phase = "fetch"
	PhaseVerify  Phase = "verify"
	PhaseExtract Phase = "extract"
	PhaseDone    Phase = "done"
)

// Event is one progress notification.
type Event struct {
	Phase   Phase
	Key     string
	Status  Status
	Message string
}

// Hooks carries the optional per-event callback. Events for different files
// may originate from different goroutines but are delivered one at a time.
type Hooks struct {
	OnEvent func(Event)
}
