package kenburns

import (
	"image"
	"math"
	"math/rand"
	"testing"
)

func rectsClose(a, b Rect, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.W-b.W) <= tol &&
		math.Abs(a.H-b.H) <= tol
}

func TestInterpolateRectBoundaries(t *testing.T) {
	for _, preset := range Presets {
		t.Run(preset.Name, func(t *testing.T) {
			atStart := InterpolateRect(preset.Start, preset.End, 0, 5.0)
			if !rectsClose(atStart, preset.Start, 1e-9) {
				t.Errorf("t=0 rect %+v != start %+v", atStart, preset.Start)
			}

			atEnd := InterpolateRect(preset.Start, preset.End, 5.0, 5.0)
			if !rectsClose(atEnd, preset.End, 1e-9) {
				t.Errorf("t=duration rect %+v != end %+v", atEnd, preset.End)
			}

			// Every intermediate rect stays within the unit square.
			for i := 0; i <= 20; i++ {
				r := InterpolateRect(preset.Start, preset.End, float64(i)*0.25, 5.0)
				if r.X < 0 || r.Y < 0 || r.X+r.W > 1+1e-9 || r.Y+r.H > 1+1e-9 {
					t.Errorf("rect escapes unit bounds at step %d: %+v", i, r)
				}
			}
		})
	}
}

func TestInterpolateRectClampsOutOfRangeTime(t *testing.T) {
	p := Presets[0]
	before := InterpolateRect(p.Start, p.End, -1.0, 5.0)
	after := InterpolateRect(p.Start, p.End, 99.0, 5.0)

	if !rectsClose(before, p.Start, 1e-9) {
		t.Errorf("t<0 should pin to start, got %+v", before)
	}
	if !rectsClose(after, p.End, 1e-9) {
		t.Errorf("t>duration should pin to end, got %+v", after)
	}
}

func TestPixelBoundsStaysInsideImage(t *testing.T) {
	tests := []struct {
		rect       Rect
		imgW, imgH int
	}{
		{Rect{0, 0, 1, 1}, 936, 1664},
		{Rect{0.95, 0.95, 0.3, 0.3}, 936, 1664}, // window pokes past the edge
		{Rect{0.5, 0.5, 0, 0}, 100, 100},        // degenerate zero-size window
		{Rect{0.15, 0.04, 0.85, 0.92}, 10, 10},  // tiny source
	}

	for _, tt := range tests {
		b := tt.rect.PixelBounds(tt.imgW, tt.imgH)
		if b.Min.X < 0 || b.Min.Y < 0 || b.Max.X > tt.imgW || b.Max.Y > tt.imgH {
			t.Errorf("bounds %v escape %dx%d image", b, tt.imgW, tt.imgH)
		}
		if b.Dx() < 1 || b.Dy() < 1 {
			t.Errorf("bounds %v collapsed below one pixel", b)
		}
	}
}

func TestPickerAvoidsRecentRepeats(t *testing.T) {
	picker := NewPicker(rand.New(rand.NewSource(7)))

	var last, beforeLast string
	for i := 0; i < 50; i++ {
		p := picker.Next()
		if p.Name == last || p.Name == beforeLast {
			t.Fatalf("pick %d repeated a recent preset: %s", i, p.Name)
		}
		beforeLast, last = last, p.Name
	}
}

func TestPickerDeterministicWithSeed(t *testing.T) {
	a := NewPicker(rand.New(rand.NewSource(3)))
	b := NewPicker(rand.New(rand.NewSource(3)))

	for i := 0; i < 12; i++ {
		if a.Next().Name != b.Next().Name {
			t.Fatalf("same seed diverged at pick %d", i)
		}
	}
}

func TestAnimatorFrameSize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 93, 166))
	anim := NewAnimator(src, 4.0, 72, 128, Presets[0])

	for _, at := range []float64{0, 1.3, 4.0} {
		frame := anim.Frame(at)
		if frame.Bounds().Dx() != 72 || frame.Bounds().Dy() != 128 {
			t.Errorf("frame at %f is %v, want 72x128", at, frame.Bounds())
		}
	}
}

func TestFocusPresetZoomsTowardSubject(t *testing.T) {
	// Subject in the lower right of a 936x1664 generated image.
	focus := image.Rect(600, 1100, 900, 1500)
	p := FocusPreset(focus, 936, 1664)

	if p.Start != (Rect{0, 0, 1, 1}) {
		t.Errorf("focus move should start at full view, got %+v", p.Start)
	}
	if p.End.W >= 1.0 || p.End.H >= 1.0 {
		t.Errorf("end window should be zoomed in: %+v", p.End)
	}
	// End window must stay inside the image.
	if p.End.X < 0 || p.End.Y < 0 || p.End.X+p.End.W > 1+1e-9 || p.End.Y+p.End.H > 1+1e-9 {
		t.Errorf("end window escapes the frame: %+v", p.End)
	}
	// And it must contain the subject's center.
	cx := float64(focus.Min.X+focus.Dx()/2) / 936
	cy := float64(focus.Min.Y+focus.Dy()/2) / 1664
	if cx < p.End.X || cx > p.End.X+p.End.W || cy < p.End.Y || cy > p.End.Y+p.End.H {
		t.Errorf("subject center (%.2f, %.2f) outside end window %+v", cx, cy, p.End)
	}
}

func TestFocusPresetFullFrameFallsBack(t *testing.T) {
	p := FocusPreset(image.Rect(0, 0, 1000, 1000), 1000, 1000)
	if p.Name != Presets[0].Name {
		t.Errorf("near-full-frame focus should fall back to the stock zoom, got %q", p.Name)
	}
}

func TestFocusPresetEnforcesMinimumWindow(t *testing.T) {
	p := FocusPreset(image.Rect(10, 10, 40, 40), 1000, 1000)
	if p.End.W < 0.55-1e-9 || p.End.H < 0.55-1e-9 {
		t.Errorf("tiny subject should not force an extreme zoom: %+v", p.End)
	}
}
