//go:generate mockgen -destination=./mocks/transfer.go . Fetcher,Runner

package transfer

import (
	"context"
	"io"
)

// Fetcher is the slice of the remote client the engine needs: streamed
// object fetches and small text objects for checksum siblings.
type Fetcher interface {
	FetchFile(ctx context.Context, key string, w io.Writer) error
	FetchText(ctx context.Context, key string) (string, error)
}

// Runner is the transfer operation the CLI layer consumes.
type Runner interface {
	Run(ctx context.Context, descriptors []Descriptor, cfg Config) (*Result, error)
}
