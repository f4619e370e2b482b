package imaging

import (
	"image"
	"image/color"
)

// Luminance weights applied to linear [0,1] RGB components.
const (
	lumaR = 0.2125
	lumaG = 0.7154
	lumaB = 0.0721
)

// Intensity converts img to a single-channel matrix in [0,1].
//
// Grayscale sources (*image.Gray, *image.Gray16) are used as they are.
// Colour sources are first brought to 8-bit straight (non-premultiplied)
// RGB, the way JPEG and PNG decoders hand pixels out, then reduced with
// Y = 0.2125 R + 0.7154 G + 0.0721 B; alpha is ignored.
//
// The returned matrix has one row per image row, so its size is
// bounds.Dy() x bounds.Dx().
func Intensity(img image.Image) *Matrix {
	b := img.Bounds()
	out := NewMatrix(b.Dy(), b.Dx())

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < out.Rows; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := src.Pix[off : off+out.Cols]
			dst := out.Row(y)
			for x, v := range row {
				dst[x] = float64(v) / 255.0
			}
		}
	case *image.Gray16:
		for y := 0; y < out.Rows; y++ {
			dst := out.Row(y)
			for x := range dst {
				dst[x] = float64(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y) / 65535.0
			}
		}
	case *image.NRGBA:
		for y := 0; y < out.Rows; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := src.Pix[off : off+4*out.Cols]
			dst := out.Row(y)
			for x := range dst {
				p := row[4*x : 4*x+3]
				dst[x] = luma(float64(p[0])/255.0, float64(p[1])/255.0, float64(p[2])/255.0)
			}
		}
	case *image.YCbCr:
		for y := 0; y < out.Rows; y++ {
			dst := out.Row(y)
			for x := range dst {
				c := src.YCbCrAt(b.Min.X+x, b.Min.Y+y)
				r, g, bl := color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
				dst[x] = luma8(r, g, bl)
			}
		}
	default:
		for y := 0; y < out.Rows; y++ {
			dst := out.Row(y)
			for x := range dst {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst[x] = luma8(c.R, c.G, c.B)
			}
		}
	}
	return out
}

func luma(r, g, b float64) float64 {
	return lumaR*r + lumaG*g + lumaB*b
}

func luma8(r, g, b uint8) float64 {
	return luma(float64(r)/255.0, float64(g)/255.0, float64(b)/255.0)
}
