package cache

import "strings"

// Key builds a deterministic cache key by joining parts with ":". Equal
// inputs always produce equal keys, so independently built keys for the
// same logical resource collide on purpose:
//
//	cache.Key("user", "42", "profile") // "user:42:profile"
//
// Parts are joined as-is. Keep individual parts free of ":" when the key
// must split unambiguously later.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
