package session

import "time"

// Config holds session lifetime settings.
type Config struct {
	TTL             time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	TouchInterval   time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
}

// DefaultConfig returns the defaults used when a field is zero.
func DefaultConfig() Config {
	return Config{
		TTL:             24 * time.Hour,
		TouchInterval:   5 * time.Minute,
		CleanupInterval: time.Hour,
	}
}
