// Package appearance holds the shared vocabulary of the interface
// configuration engine: the error taxonomy its stores and resolvers
// raise, and the cache namespaces they invalidate.
package appearance

import "errors"

// Error taxonomy. Callers branch with errors.Is; the HTTP boundary maps
// these onto status codes. Wrap with fmt.Errorf("...: %w", Err...) to
// attach detail.
var (
	// ErrValidation marks malformed input (bad color, missing required
	// typography keys, invalid scope pairing). Raised before any store
	// mutation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced record that does not exist. Never
	// silently treated as success.
	ErrNotFound = errors.New("record not found")

	// ErrInvariant marks an operation that would break a protected
	// invariant: deleting the active configuration, editing or deleting
	// a system preset.
	ErrInvariant = errors.New("invariant violation")

	// ErrStoreUnavailable marks an unreachable persistence layer. A
	// cache miss plus store failure surfaces as this, never as an empty
	// result.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNoActiveConfig is the explicit empty state: nothing is
	// configured anywhere. Normal during first-run, distinct from
	// ErrStoreUnavailable. The engine never substitutes a fabricated
	// default; presenting one is the UI boundary's call.
	ErrNoActiveConfig = errors.New("no configuration available")
)

// Cache names registered on the invalidation bus.
const (
	CacheConfigs    = "configs"
	CachePresets    = "presets"
	CacheContextual = "contextual"
)

// Cache key namespaces. Invalidation works by substring, so every key
// of a collection shares its prefix.
const (
	KeyConfigPrefix  = "cfg:"
	KeyConfigActive  = "cfg:active"
	KeyConfigAll     = "cfg:all"
	KeyPresetPrefix  = "preset:"
	KeyPresetAll     = "preset:all"
	KeyContextPrefix = "ctx:"
)

// ConfigKey returns the cache key for one configuration record.
func ConfigKey(id string) string { return KeyConfigPrefix + "id:" + id }

// PresetKey returns the cache key for one preset record.
func PresetKey(id string) string { return KeyPresetPrefix + "id:" + id }

// ContextKey returns the cache key for the active record of one scope.
func ContextKey(scope string) string { return KeyContextPrefix + scope }
