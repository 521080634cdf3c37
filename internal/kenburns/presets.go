package kenburns

import (
	"image"
	"math/rand"
)

// Preset is a start/end crop window pair describing one camera move.
type Preset struct {
	Name  string
	Start Rect
	End   Rect
}

// Presets is the fixed library of camera moves. Images are generated
// ~1.3x larger than the output frame, which leaves headroom for every
// move here.
var Presets = []Preset{
	{"zoom-in", Rect{0.0, 0.0, 1.0, 1.0}, Rect{0.08, 0.08, 0.84, 0.84}},
	{"zoom-out", Rect{0.08, 0.08, 0.84, 0.84}, Rect{0.0, 0.0, 1.0, 1.0}},
	{"pan-right", Rect{0.0, 0.04, 0.85, 0.92}, Rect{0.15, 0.04, 0.85, 0.92}},
	{"pan-left", Rect{0.15, 0.04, 0.85, 0.92}, Rect{0.0, 0.04, 0.85, 0.92}},
	{"zoom-in-top", Rect{0.0, 0.0, 1.0, 1.0}, Rect{0.06, 0.0, 0.88, 0.88}},
	{"zoom-in-bottom", Rect{0.0, 0.12, 1.0, 1.0}, Rect{0.06, 0.12, 0.88, 0.88}},
}

// Picker selects presets for consecutive scenes, never repeating either
// of the previous two picks so neighbouring scenes stay visually
// distinct. The random source is injected; tests pass a seeded one.
type Picker struct {
	rng    *rand.Rand
	recent []int
}

// NewPicker returns a Picker drawing from the given source.
func NewPicker(rng *rand.Rand) *Picker {
	return &Picker{rng: rng}
}

// Next returns the preset for the next scene.
func (p *Picker) Next() Preset {
	var available []int
	for i := range Presets {
		if !p.recentlyUsed(i) {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		for i := range Presets {
			available = append(available, i)
		}
	}

	idx := available[p.rng.Intn(len(available))]
	p.recent = append(p.recent, idx)
	if len(p.recent) > 2 {
		p.recent = p.recent[len(p.recent)-2:]
	}
	return Presets[idx]
}

func (p *Picker) recentlyUsed(idx int) bool {
	for _, r := range p.recent {
		if r == idx {
			return true
		}
	}
	return false
}

// FocusPreset builds a zoom-in move ending on a detected focus region.
// The end window expands the region by a margin and clamps into frame;
// a region close to full frame degrades into the stock zoom-in.
func FocusPreset(focus image.Rectangle, imgW, imgH int) Preset {
	if imgW <= 0 || imgH <= 0 {
		return Presets[0]
	}

	const margin = 0.12 // breathing room around the subject
	const minWindow = 0.55

	x := float64(focus.Min.X)/float64(imgW) - margin
	y := float64(focus.Min.Y)/float64(imgH) - margin
	w := float64(focus.Dx())/float64(imgW) + 2*margin
	h := float64(focus.Dy())/float64(imgH) + 2*margin

	// Never zoom in harder than the stock presets do; tight crops of a
	// ~1.3x image turn to mush.
	if w < minWindow {
		x -= (minWindow - w) / 2
		w = minWindow
	}
	if h < minWindow {
		y -= (minWindow - h) / 2
		h = minWindow
	}
	if w >= 0.95 && h >= 0.95 {
		return Presets[0]
	}

	x = clampFloat(x, 0, 1-w)
	y = clampFloat(y, 0, 1-h)

	return Preset{
		Name:  "focus-zoom",
		Start: Rect{0.0, 0.0, 1.0, 1.0},
		End:   Rect{X: x, Y: y, W: w, H: h},
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
