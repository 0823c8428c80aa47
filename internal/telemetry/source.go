// internal/telemetry/source.go
package telemetry

// Source abstracts one printer's telemetry feed.
// The monitor depends on this seam only; transport lives in subpackages.
type Source interface {
	// Connect establishes the feed. Data arrives asynchronously after it
	// returns; callers are expected to poll Fields.
	Connect() error

	// RequestRefresh asks the printer to push its full state. Best-effort:
	// not every firmware supports it, and failures are non-fatal.
	RequestRefresh() error

	// Fields returns a copy of the latest known raw field map.
	// Latest wins; fields the printer has never sent are simply missing.
	Fields() (map[string]any, error)

	// Close tears the feed down.
	Close() error
}
