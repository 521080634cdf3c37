// Package analyzer finds the visually busy region of a scene image so
// the pan/zoom camera has something to move toward.
package analyzer

import (
	"image"
	"image/color"
	"math"
)

// Region is one detected area of visual detail.
type Region struct {
	Rect   image.Rectangle
	Weight float64 // detected area relative to the image
}

// ContrastDetector locates detail through Sobel edges, dilation to fuse
// nearby edges, and connected-component bounding boxes.
type ContrastDetector struct {
	MinRegionArea int     // pixels²
	EdgeThreshold float64 // gradient magnitude cutoff
}

// NewContrastDetector returns a detector tuned for AI-generated scene
// imagery: moderate sensitivity, regions of at least ~22x22 px.
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinRegionArea: 500,
		EdgeThreshold: 30.0,
	}
}

// Detect returns the detail regions of img, unordered.
func (d *ContrastDetector) Detect(img image.Image) []Region {
	gray := toGrayscale(img)
	edges := sobelEdges(gray, d.EdgeThreshold)
	dilated := dilate(edges, 5, 2)
	rects := connectedComponents(dilated)

	imgArea := float64(img.Bounds().Dx() * img.Bounds().Dy())
	var regions []Region
	for _, rect := range rects {
		area := rect.Dx() * rect.Dy()
		if area >= d.MinRegionArea {
			regions = append(regions, Region{
				Rect:   rect,
				Weight: float64(area) / imgArea,
			})
		}
	}
	return regions
}

// FindFocus returns the dominant detail region, or false when the image
// is too flat to prefer any part of it. Regions bigger than ~80% of
// the frame are ignored; zooming into nearly-everything is the same as
// not zooming at all.
func (d *ContrastDetector) FindFocus(img image.Image) (image.Rectangle, bool) {
	var best Region
	for _, r := range d.Detect(img) {
		if r.Weight > 0.8 {
			continue
		}
		if r.Weight > best.Weight {
			best = r
		}
	}
	if best.Weight == 0 {
		return image.Rectangle{}, false
	}
	return best.Rect, true
}

func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

func sobelEdges(gray *image.Gray, threshold float64) *image.Gray {
	bounds := gray.Bounds()
	edges := image.NewGray(bounds)

	gx := [][]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	gy := [][]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			var sumX, sumY float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					pixel := float64(gray.GrayAt(x+kx, y+ky).Y)
					sumX += pixel * float64(gx[ky+1][kx+1])
					sumY += pixel * float64(gy[ky+1][kx+1])
				}
			}
			if math.Sqrt(sumX*sumX+sumY*sumY) > threshold {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return edges
}

func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	bounds := img.Bounds()
	result := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			result.SetGray(x, y, img.GrayAt(x, y))
		}
	}

	half := kernelSize / 2
	for iter := 0; iter < iterations; iter++ {
		temp := image.NewGray(bounds)
		for y := bounds.Min.Y + half; y < bounds.Max.Y-half; y++ {
			for x := bounds.Min.X + half; x < bounds.Max.X-half; x++ {
				maxVal := uint8(0)
				for ky := -half; ky <= half; ky++ {
					for kx := -half; kx <= half; kx++ {
						if val := result.GrayAt(x+kx, y+ky).Y; val > maxVal {
							maxVal = val
						}
					}
				}
				temp.SetGray(x, y, color.Gray{Y: maxVal})
			}
		}
		result = temp
	}
	return result
}

func connectedComponents(img *image.Gray) []image.Rectangle {
	bounds := img.Bounds()
	visited := make([][]bool, bounds.Dy())
	for i := range visited {
		visited[i] = make([]bool, bounds.Dx())
	}

	var rects []image.Rectangle
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.GrayAt(x, y).Y > 128 && !visited[y-bounds.Min.Y][x-bounds.Min.X] {
				rects = append(rects, floodFill(img, visited, x, y))
			}
		}
	}
	return rects
}

func floodFill(img *image.Gray, visited [][]bool, startX, startY int) image.Rectangle {
	bounds := img.Bounds()
	minX, minY := startX, startY
	maxX, maxY := startX, startY

	stack := []image.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := p.X, p.Y
		if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		if visited[y-bounds.Min.Y][x-bounds.Min.X] || img.GrayAt(x, y).Y <= 128 {
			continue
		}
		visited[y-bounds.Min.Y][x-bounds.Min.X] = true

		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}

		stack = append(stack,
			image.Point{X: x + 1, Y: y},
			image.Point{X: x - 1, Y: y},
			image.Point{X: x, Y: y + 1},
			image.Point{X: x, Y: y - 1},
		)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
