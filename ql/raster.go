package ql

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// headWidthDots is the fixed width of the print head, in dots. Every
// catalogued media's left_margin + width_dots is no larger than this.
const headWidthDots = 720

// lineBytes is the width of one packed raster line: 720 bits, MSB-first.
const lineBytes = headWidthDots / 8

// RasterLayer is an ordered sequence of packed 90-byte scanlines, already
// in feed order (the physically first-printed line is last).
type RasterLayer [][lineBytes]byte

// RasterImage is the rasterized form of one page: either a single
// monochrome layer or a coherent pair of black/red layers.
type RasterImage struct {
	Black    RasterLayer
	Red      RasterLayer // nil unless TwoColor
	TwoColor bool
}

// Len returns the number of scanlines in the image (both layers share it).
func (r RasterImage) Len() int { return len(r.Black) }

// NewMonochromeImage validates img against media and rasterizes it to a
// single black layer, masking on "not pure white", greyscaling, and
// Floyd-Steinberg dithering to bi-level.
func NewMonochromeImage(img image.Image, media Media) (RasterImage, error) {
	if err := validateDimensions(img, media); err != nil {
		return RasterImage{}, err
	}
	black := rasterizeLayer(img, media, func(r, g, b uint8) bool {
		return !(r == 255 && g == 255 && b == 255)
	})
	return RasterImage{Black: black}, nil
}

// NewTwoColorImage validates img against media (which must support color)
// and rasterizes it to coherent black and red layers of equal length.
func NewTwoColorImage(img image.Image, media Media) (RasterImage, error) {
	if err := validateDimensions(img, media); err != nil {
		return RasterImage{}, err
	}
	black := rasterizeLayer(img, media, func(r, g, b uint8) bool {
		return r == g && g == b && r < 200
	})
	red := rasterizeLayer(img, media, func(r, g, b uint8) bool {
		return r > 100 && r > g && r > b
	})
	return RasterImage{Black: black, Red: red, TwoColor: true}, nil
}

func validateDimensions(img image.Image, media Media) error {
	bounds := img.Bounds()
	w, h := uint32(bounds.Dx()), uint32(bounds.Dy())

	if w != media.WidthDots() {
		err := &DimensionMismatchError{ExpectedWidth: media.WidthDots(), ActualWidth: w}
		if lengthDots, ok := media.LengthDots(); ok {
			err.HasExpectedHeight, err.ExpectedHeight, err.ActualHeight = true, lengthDots, h
		}
		return err
	}
	if lengthDots, ok := media.LengthDots(); ok && h != lengthDots {
		return &DimensionMismatchError{
			ExpectedWidth: media.WidthDots(), ActualWidth: w,
			HasExpectedHeight: true, ExpectedHeight: lengthDots, ActualHeight: h,
		}
	}
	return nil
}

// rasterizeLayer masks img with predicate, forces unselected pixels to
// white, greyscales, dithers to bi-level, pads to the full head width at
// media's right margin, packs into 90-byte lines MSB-first (bit=1 means
// "fire dot", i.e. black), and reverses line order into feed order.
func rasterizeLayer(img image.Image, media Media, predicate func(r, g, b uint8) bool) RasterLayer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	masked := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
			if predicate(r8, g8, b8) {
				masked.Set(x, y, color.RGBA{r8, g8, b8, 0xff})
			} else {
				masked.Set(x, y, color.White)
			}
		}
	}

	gray := imaging.Grayscale(masked)
	dithered := floydSteinbergBiLevel(gray, w, h)

	rightMargin := int(headWidthDots - media.LeftMargin() - media.WidthDots())
	canvas := imaging.New(headWidthDots, h, color.White)
	canvas = imaging.Paste(canvas, dithered, image.Pt(rightMargin, 0))

	layer := make(RasterLayer, h)
	for y := 0; y < h; y++ {
		var line [lineBytes]byte
		for x := 0; x < headWidthDots; x++ {
			r, _, _, _ := canvas.At(x, y).RGBA()
			if r>>8 == 0 { // black after dithering
				line[x/8] |= 0x80 >> uint(x%8)
			}
		}
		layer[y] = line
	}
	reverseLayer(layer)
	return layer
}

// floydSteinbergBiLevel greyscale-dithers img to pure black/white using
// error diffusion: each pixel's quantization error is spread to its
// right and below-row neighbors (7/16, 3/16, 5/16, 1/16).
func floydSteinbergBiLevel(img image.Image, w, h int) image.Image {
	errs := make([][]float64, h)
	for y := range errs {
		errs[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			gray, _, _, _ := img.At(x, y).RGBA()
			errs[y][x] = float64(gray >> 8)
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			old := errs[y][x]
			var newVal float64
			if old >= 128 {
				newVal = 255
			}
			out.SetGray(x, y, color.Gray{Y: uint8(newVal)})

			quantErr := old - newVal
			if x+1 < w {
				errs[y][x+1] += quantErr * 7.0 / 16.0
			}
			if y+1 < h {
				if x > 0 {
					errs[y+1][x-1] += quantErr * 3.0 / 16.0
				}
				errs[y+1][x] += quantErr * 5.0 / 16.0
				if x+1 < w {
					errs[y+1][x+1] += quantErr * 1.0 / 16.0
				}
			}
		}
	}
	return out
}

func reverseLayer(layer RasterLayer) {
	for i, j := 0, len(layer)-1; i < j; i, j = i+1, j-1 {
		layer[i], layer[j] = layer[j], layer[i]
	}
}
