package pipeline

import (
	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
)

// Source yields the canonical image of a run. It is called once, after the
// models have been resolved.
type Source func() (*imaging.Matrix, error)

// FromPath reads the image at path through cache. A nil cache decodes the
// file directly.
func FromPath(cache *imaging.CanonicalCache, path string) Source {
	return func() (*imaging.Matrix, error) {
		if cache != nil {
			return cache.Load(path)
		}
		img, err := imaging.Open(path)
		if err != nil {
			return nil, err
		}
		return imaging.Canonicalize(img), nil
	}
}

// FromBytes decodes an encoded image held in memory.
func FromBytes(data []byte) Source {
	return func() (*imaging.Matrix, error) {
		img, err := imaging.DecodeBytes(data)
		if err != nil {
			return nil, err
		}
		return imaging.Canonicalize(img), nil
	}
}

// FromCanonical uses m as the canonical image. Its size is still checked at
// segmentation.
func FromCanonical(m *imaging.Matrix) Source {
	return func() (*imaging.Matrix, error) {
		return m, nil
	}
}
