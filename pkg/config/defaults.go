package config

const (
	defaultAPITarget      = "http://localhost:8080"
	defaultTimeoutSeconds = 300

	defaultStubListen = ":8080"
	defaultStubSeed   = true
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			APITarget:      defaultAPITarget,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Stub: StubConfig{
			Listen: defaultStubListen,
			Seed:   defaultStubSeed,
		},
		// Cache.Path deliberately empty: resolved against the .prepdeck/
		// directory at use.
	}
}
