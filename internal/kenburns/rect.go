package kenburns

import (
	"image"
	"math"
)

// Rect is a crop window expressed as fractions of the source image, so
// one preset works for any resolution the image generator happens to
// produce. All four components live in [0, 1].
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// lerp interpolates each component of the crop window.
func lerp(start, end Rect, t float64) Rect {
	return Rect{
		X: start.X + (end.X-start.X)*t,
		Y: start.Y + (end.Y-start.Y)*t,
		W: start.W + (end.W-start.W)*t,
		H: start.H + (end.H-start.H)*t,
	}
}

// easeInOut maps linear progress to a cosine ramp, so the camera
// accelerates gently and settles instead of moving at constant speed.
func easeInOut(progress float64) float64 {
	return 0.5 - 0.5*math.Cos(progress*math.Pi)
}

// InterpolateRect returns the crop window at time t of a scene lasting
// duration seconds, moving from start to end with ease-in-out.
func InterpolateRect(start, end Rect, t, duration float64) Rect {
	progress := 0.0
	if duration > 0 {
		progress = t / duration
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return lerp(start, end, easeInOut(progress))
}

// PixelBounds converts a fractional crop window to pixel coordinates
// against the actual source dimensions, clamped to stay inside the
// image and never collapse below one pixel.
func (r Rect) PixelBounds(imgW, imgH int) image.Rectangle {
	x := int(r.X * float64(imgW))
	y := int(r.Y * float64(imgH))
	w := int(r.W * float64(imgW))
	h := int(r.H * float64(imgH))

	x = clampInt(x, 0, imgW-1)
	y = clampInt(y, 0, imgH-1)
	w = clampInt(w, 1, imgW-x)
	h = clampInt(h, 1, imgH-y)

	return image.Rect(x, y, x+w, y+h)
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
