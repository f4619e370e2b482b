package leads

import "github.com/ironsheep/ecg-tools-mcp/internal/imaging"

// Fixed mask grid every lead is resampled to.
const (
	MaskRows = 300
	MaskCols = 450
)

// Smoothing strengths (Gaussian sigma) per stage. They change contour shape,
// so the feature value must stay at 0.7 for the pretrained models.
const (
	FeatureSigma = 0.7
	PreviewSigma = 1.0
)

// Binarization is the intermediate result of thresholding one region.
type Binarization struct {
	// Threshold is the Otsu cutoff computed on the blurred region.
	Threshold float64

	// Mask marks trace pixels (blurred intensity below Threshold) at the
	// region's own size.
	Mask *imaging.Mask
}

// Threshold blurs pixels with the given sigma, computes the Otsu threshold
// of the blurred block and marks every pixel strictly darker than it.
//
// A uniform region yields a threshold equal to its single value and therefore
// an all-false mask; this is a valid result, not an error.
func Threshold(pixels *imaging.Matrix, sigma float64) Binarization {
	blurred := imaging.Blur(pixels, sigma)
	thresh := imaging.OtsuThreshold(blurred)

	mask := imaging.NewMask(blurred.Rows, blurred.Cols)
	for i, v := range blurred.Data {
		mask.Data[i] = v < thresh
	}
	return Binarization{Threshold: thresh, Mask: mask}
}

// Binarize produces the fixed-size MaskRows x MaskCols trace mask of a lead
// region: Threshold followed by nearest-neighbour resampling.
//
// Use FeatureSigma for the mask that feeds contour extraction and
// PreviewSigma for review renderings.
func Binarize(pixels *imaging.Matrix, sigma float64) *imaging.Mask {
	return Threshold(pixels, sigma).Resized()
}

// Resized returns the mask resampled to MaskRows x MaskCols.
func (b Binarization) Resized() *imaging.Mask {
	return imaging.ResizeMask(b.Mask, MaskRows, MaskCols)
}
