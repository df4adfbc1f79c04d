package ports

import "context"

// PreferenceRepository stores user interface preferences as key/value pairs.
type PreferenceRepository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
