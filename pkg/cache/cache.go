package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache stores byte values under string keys.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// DefaultTTL is how long cached layouts and artifacts live by default.
const DefaultTTL = 7 * 24 * time.Hour

// DefaultDir returns the default directory of the file cache:
// $XDG_CACHE_HOME/treemap, or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "treemap"), nil
}

// =============================================================================
// Keys
// =============================================================================

// Keyer derives cache keys. Each key level hashes its parent key together
// with the options that affect that level.
type Keyer interface {
	// TreeKey identifies an aggregated tree built from a source document.
	TreeKey(sourceHash string, opts TreeKeyOpts) string

	// LayoutKey identifies a layout of the tree with the given content hash.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output of a layout.
	ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string
}

// TreeKeyOpts are the ingestion options that shape the aggregated tree.
type TreeKeyOpts struct {
	Format   string   `json:"format"`
	NameKey  string   `json:"name_key"`
	SizeKey  string   `json:"size_key"`
	ValueKey string   `json:"value_key"`
	Subtree  []string `json:"subtree,omitempty"`
}

// LayoutKeyOpts are the layout options that shape the rectangles.
type LayoutKeyOpts struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	MinArea         float64 `json:"min_area"`
	CanonicalWidth  float64 `json:"canonical_width,omitempty"`
	CanonicalHeight float64 `json:"canonical_height,omitempty"`
}

// ArtifactKeyOpts are the rendering options that shape an output file.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	FrameWidth  float64 `json:"frame_width,omitempty"`
	FrameHeight float64 `json:"frame_height,omitempty"`
	Caption     string  `json:"caption,omitempty"`
	StatsLabel  string  `json:"stats_label,omitempty"`
	MaxDepth    int     `json:"max_depth,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TreeKey returns "tree:<hash>".
func (DefaultKeyer) TreeKey(sourceHash string, opts TreeKeyOpts) string {
	return hashKey("tree", sourceHash, opts)
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutKey, opts)
}
