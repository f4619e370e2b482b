package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Canonical image size every crop coordinate assumes.
const (
	CanonicalRows = 1572
	CanonicalCols = 2213
)

// ErrDecode marks input that could not be read or decoded as a raster image.
var ErrDecode = errors.New("image decode failed")

// Decode reads a raster image from r.
//
// Supported formats are those registered with the image package: PNG, JPEG,
// GIF, BMP and TIFF through disintegration/imaging, plus WebP. EXIF
// orientation is not applied; the pixel grid is used as stored.
//
// Errors wrap ErrDecode.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}
	return Decode(bytes.NewReader(data))
}

// Open reads and decodes the image file at path. A missing or unreadable
// file is reported as ErrDecode as well.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image: %v", ErrDecode, err)
	}
	defer f.Close()
	return Decode(f)
}

// Canonicalize converts img to the canonical CanonicalRows x CanonicalCols
// intensity matrix: luminance conversion followed by Resize.
func Canonicalize(img image.Image) *Matrix {
	return Resize(Intensity(img), CanonicalRows, CanonicalCols)
}

// DefaultCacheEntries is the capacity used when NewCanonicalCache is given a
// non-positive size.
const DefaultCacheEntries = 4

// CanonicalCache provides thread-safe caching of canonical images keyed by
// file path, so repeated requests on the same printout skip decoding and
// resampling.
//
// An entry is reused only while the file's size and modification time are
// unchanged; a rewritten file is decoded again.
//
// # Memory Management
//
// A canonical image is about 28 MB of float64 data. The cache holds at most
// its capacity and drops the least recently used entry beyond that. An entry
// whose file can no longer be read is dropped on the next Load.
type CanonicalCache struct {
	entries *lru.Cache[string, cacheEntry]
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	matrix  *Matrix
}

// NewCanonicalCache creates an empty cache holding up to capacity images.
// A non-positive capacity selects DefaultCacheEntries.
func NewCanonicalCache(capacity int) *CanonicalCache {
	if capacity <= 0 {
		capacity = DefaultCacheEntries
	}
	entries, err := lru.New[string, cacheEntry](capacity)
	if err != nil {
		// lru.New only rejects non-positive sizes
		panic(err)
	}
	return &CanonicalCache{entries: entries}
}

// Load returns the canonical image for path, decoding it on a cache miss.
//
// The returned matrix is shared between callers and must be treated as
// read-only.
//
// # Errors
//
//   - ErrDecode if the file does not exist, cannot be read or is not an image
func (c *CanonicalCache) Load(path string) (*Matrix, error) {
	stat, err := os.Stat(path)
	if err != nil {
		c.entries.Remove(path)
		return nil, fmt.Errorf("%w: failed to stat image: %v", ErrDecode, err)
	}

	entry, ok := c.entries.Get(path)
	if ok && entry.size == stat.Size() && entry.modTime.Equal(stat.ModTime()) {
		return entry.matrix, nil
	}

	img, err := Open(path)
	if err != nil {
		c.entries.Remove(path)
		return nil, err
	}
	m := Canonicalize(img)

	c.entries.Add(path, cacheEntry{modTime: stat.ModTime(), size: stat.Size(), matrix: m})
	return m, nil
}

// Len reports the number of cached images.
func (c *CanonicalCache) Len() int {
	return c.entries.Len()
}

// Clear removes all cached images.
func (c *CanonicalCache) Clear() {
	c.entries.Purge()
}

// Evict removes the entry for path. Unknown paths are ignored.
func (c *CanonicalCache) Evict(path string) {
	c.entries.Remove(path)
}
