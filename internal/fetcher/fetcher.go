// Package fetcher downloads comparison reports to local files.
package fetcher

import (
	"context"
)

// Fetcher defines the interface for retrieving remote report documents.
type Fetcher interface {
	// FetchReport downloads rawURL into destDir/name, creating destDir if
	// needed. Returns bytes written. On failure no file exists at destDir/name.
	FetchReport(ctx context.Context, rawURL, destDir, name string) (int64, error)
}
