// Package stub provides a self-contained practice server that implements
// the Prep API surface in memory. Used by prepdeck serve so every client
// command and the TUI can be exercised without a real backend.
package stub

// Config is the stub server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string
	// Seed populates the store with demo sessions and knowledge bases
	Seed bool
}
