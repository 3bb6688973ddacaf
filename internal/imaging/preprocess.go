// Package imaging normalizes raw images into OCR-ready binary images.
//
// The pipeline is deterministic: the same input always produces the same
// output, so OCR results over a preprocessed image are reproducible.
package imaging

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

const (
	// minSide is the smallest acceptable image dimension for OCR; smaller
	// inputs are upscaled so the short side reaches it.
	minSide = 300

	claheClipLimit = 2.0
	claheGridSize  = 8
)

// Preprocess runs the full normalization pipeline: grayscale conversion,
// conditional cubic upscaling, 3x3 Gaussian blur, CLAHE, 2x2 morphological
// closing, and Otsu binarization. The returned image contains only the
// values 0 and 255.
func Preprocess(src image.Image) *image.Gray {
	g := Grayscale(src)
	g = UpscaleIfSmall(g, minSide)
	g = GaussianBlur3(g)
	g = CLAHE(g, claheClipLimit, claheGridSize)
	g = Close2(g)
	return OtsuThreshold(g)
}

// Grayscale converts any image to 8-bit grayscale using the standard
// luma weights. The result is always zero-origin.
func Grayscale(src image.Image) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			out.Pix[y*out.Stride+x] = c.Y
		}
	}
	return out
}

// UpscaleIfSmall uniformly upscales with Catmull-Rom (cubic) interpolation
// when either dimension is below side, preserving aspect ratio so the
// smaller dimension reaches side. Larger images pass through untouched.
func UpscaleIfSmall(src *image.Gray, side int) *image.Gray {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	if w >= side && h >= side {
		return src
	}
	scale := math.Max(float64(side)/float64(h), float64(side)/float64(w))
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	dst := image.NewGray(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// GaussianBlur3 applies a 3x3 Gaussian kernel (sigma ~0.85) with replicated
// borders to suppress sensor and scan noise.
func GaussianBlur3(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	// kernel 1 2 1 / 2 4 2 / 1 2 1, normalized by 16
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					weight := (2 - abs(dx)) * (2 - abs(dy))
					sum += weight * int(grayAtClamped(src, x+dx, y+dy))
				}
			}
			out.Pix[y*out.Stride+x] = uint8((sum + 8) / 16)
		}
	}
	return out
}

// CLAHE applies contrast-limited adaptive histogram equalization over a
// grid x grid tile layout, bilinearly interpolating between the per-tile
// mappings to avoid visible tile seams.
func CLAHE(src *image.Gray, clipLimit float64, grid int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < grid || h < grid {
		grid = 1
	}
	tileW := (w + grid - 1) / grid
	tileH := (h + grid - 1) / grid

	luts := make([][256]uint8, grid*grid)
	for ty := 0; ty < grid; ty++ {
		for tx := 0; tx < grid; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := minInt(x0+tileW, w), minInt(y0+tileH, h)
			luts[ty*grid+tx] = tileLUT(src, x0, y0, x1, y1, clipLimit)
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		fy := (float64(y)+0.5)/float64(tileH) - 0.5
		ty0 := int(math.Floor(fy))
		ay := fy - float64(ty0)
		tyA := clampInt(ty0, 0, grid-1)
		tyB := clampInt(ty0+1, 0, grid-1)
		for x := 0; x < w; x++ {
			fx := (float64(x)+0.5)/float64(tileW) - 0.5
			tx0 := int(math.Floor(fx))
			ax := fx - float64(tx0)
			txA := clampInt(tx0, 0, grid-1)
			txB := clampInt(tx0+1, 0, grid-1)

			v := src.Pix[y*src.Stride+x]
			v00 := float64(luts[tyA*grid+txA][v])
			v10 := float64(luts[tyA*grid+txB][v])
			v01 := float64(luts[tyB*grid+txA][v])
			v11 := float64(luts[tyB*grid+txB][v])
			top := v00*(1-ax) + v10*ax
			bot := v01*(1-ax) + v11*ax
			out.Pix[y*out.Stride+x] = uint8(math.Round(top*(1-ay) + bot*ay))
		}
	}
	return out
}

// tileLUT builds one tile's clipped-equalization lookup table.
func tileLUT(src *image.Gray, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[src.Pix[y*src.Stride+x]]++
		}
	}
	area := (x1 - x0) * (y1 - y0)
	if area == 0 {
		return [256]uint8{}
	}

	limit := int(clipLimit * float64(area) / 256.0)
	if limit < 1 {
		limit = 1
	}
	excess := 0
	for i := range hist {
		if hist[i] > limit {
			excess += hist[i] - limit
			hist[i] = limit
		}
	}
	// redistribute the clipped mass evenly, remainder into the low bins
	share := excess / 256
	rem := excess % 256
	for i := range hist {
		hist[i] += share
		if i < rem {
			hist[i]++
		}
	}

	var lut [256]uint8
	scale := 255.0 / float64(area)
	cdf := 0
	for i := range hist {
		cdf += hist[i]
		v := math.Round(float64(cdf) * scale)
		if v > 255 {
			v = 255
		}
		lut[i] = uint8(v)
	}
	return lut
}

// Close2 applies a 2x2 morphological closing (dilation then erosion) to
// bridge small gaps in character strokes.
func Close2(src *image.Gray) *image.Gray {
	return erode2(dilate2(src))
}

func dilate2(src *image.Gray) *image.Gray {
	return morph2(src, func(a, b uint8) uint8 {
		if a > b {
			return a
		}
		return b
	})
}

func erode2(src *image.Gray) *image.Gray {
	return morph2(src, func(a, b uint8) uint8 {
		if a < b {
			return a
		}
		return b
	})
}

// morph2 folds a 2x2 window over every pixel with the given reducer,
// clamping at the right and bottom borders.
func morph2(src *image.Gray, pick func(a, b uint8) uint8) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := src.Pix[y*src.Stride+x]
			v = pick(v, grayAtClamped(src, x+1, y))
			v = pick(v, grayAtClamped(src, x, y+1))
			v = pick(v, grayAtClamped(src, x+1, y+1))
			out.Pix[y*out.Stride+x] = v
		}
	}
	return out
}

// OtsuThreshold binarizes using the threshold that maximizes between-class
// variance. Output pixels are 0 or 255.
func OtsuThreshold(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	var hist [256]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hist[src.Pix[y*src.Stride+x]]++
		}
	}
	total := w * h

	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i) * float64(c)
	}

	var sumB, wB float64
	var best float64
	threshold := 0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = t
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range src.Pix[:len(out.Pix)] {
		if int(v) > threshold {
			out.Pix[i] = 255
		}
	}
	return out
}

func grayAtClamped(img *image.Gray, x, y int) uint8 {
	b := img.Bounds()
	x = clampInt(x, 0, b.Dx()-1)
	y = clampInt(y, 0, b.Dy()-1)
	return img.Pix[y*img.Stride+x]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
