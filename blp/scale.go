package blp

import (
	"image"

	"github.com/disintegration/imaging"
)

// downscale resizes img to w x h (each floored to a minimum of 1) using an
// unweighted area-average box filter, matching spec §4.7's "downscaling
// uses area averaging" for both auto-mipmap generation and dimension
// optimization. imaging.Box is a direct box filter: every destination
// sample is the plain average of its source footprint, the same
// operation the spec describes.
func downscale(img image.Image, w, h int) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(img, w, h, imaging.Box)
}

// mipmapPyramid builds the full chain of mipmap levels for base,
// starting at level 0 (base itself, resampled to header dimensions if
// it doesn't already match) and halving at each step until 1x1 is
// reached, per spec §3's mipmapCount formula (component C7 step 3).
func mipmapPyramid(base image.Image, h StreamHeader) []image.Image {
	count := h.MipmapCount()
	out := make([]image.Image, count)
	prev := base
	for i := 0; i < count; i++ {
		w, ht := h.MipmapDimensions(i)
		b := prev.Bounds()
		if b.Dx() != w || b.Dy() != ht {
			prev = downscale(prev, w, ht)
		}
		out[i] = prev
	}
	return out
}

// dimensionMode selects how an oversized source image is fit to the
// header's declared dimensions before mipmap generation (spec §9 open
// question, resolved in SPEC_FULL.md §9).
type dimensionMode int

const (
	// DimensionNone performs no resizing; the source is encoded at its own
	// dimensions, which replace the ones the Encoder was created with.
	DimensionNone dimensionMode = iota
	// DimensionRatio scales the source down to fit within MaxDimension
	// while preserving its aspect ratio.
	DimensionRatio
	// DimensionClamp scales each axis independently down to at most
	// MaxDimension, potentially altering the aspect ratio.
	DimensionClamp
)

// defaultMaxDimension is the MAX clamp used when Options.MaxDimension is
// left at zero (spec §9 open question 3).
const defaultMaxDimension = 512

func fitToMax(img image.Image, mode dimensionMode, maxDim int) image.Image {
	if maxDim <= 0 {
		maxDim = defaultMaxDimension
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch mode {
	case DimensionRatio:
		if w <= maxDim && h <= maxDim {
			return img
		}
		if w >= h {
			return downscale(img, maxDim, maxDim*h/w)
		}
		return downscale(img, maxDim*w/h, maxDim)
	case DimensionClamp:
		nw, nh := w, h
		if nw > maxDim {
			nw = maxDim
		}
		if nh > maxDim {
			nh = maxDim
		}
		if nw == w && nh == h {
			return img
		}
		return downscale(img, nw, nh)
	default:
		return img
	}
}
