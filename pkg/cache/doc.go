// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: JSON envelopes with expiry under the user cache directory,
//     used by the CLI
//   - [RedisCache]: shared cache for the HTTP service, backed by go-redis
//   - [NullCache]: never stores anything
//
// # Keys
//
// A [Keyer] derives cache keys from content hashes and the options that
// influence the result, so that changing any option yields a new key:
//
//	k := cache.NewDefaultKeyer()
//	treeKey := k.TreeKey(cache.Hash(src), cache.TreeKeyOpts{Format: "xml", SizeKey: "Size"})
//	layoutKey := k.LayoutKey(cache.Hash(treeJSON), cache.LayoutKeyOpts{Width: 100, Height: 100, MinArea: 9000})
//	artifactKey := k.ArtifactKey(layoutKey, cache.ArtifactKeyOpts{Format: "svg"})
//
// [ScopedKeyer] prefixes every key for per-tenant isolation.
package cache
