package scan

import "github.com/corvid-labs/paperscan-go/internal/imaging"

// ContourTracer extracts outer-boundary contours from a binary image (spec
// §6's "contour-tracing interface": `trace(binary, W, H) -> list of
// contours`). Each contour is a list of integer points describing the
// outer boundary, with no holes reported.
type ContourTracer interface {
	Trace(binary *imaging.GrayImage) [][]ContourPoint
}

// refContourTracer is the in-module reference implementation: an
// 8-connected Moore-neighbor boundary tracer, grounded on the receipt
// cropper's traceContour/findContours pair. A foreground pixel (255) is
// the start of a new contour if it hasn't been visited yet; tracing walks
// the boundary by checking 8 neighbors in a fixed clockwise order starting
// at the direction the tracer arrived from, stepping only onto unvisited
// boundary pixels (foreground pixels with a background or out-of-image
// 4-neighbor), and stops when no such neighbor is left, which for a closed
// boundary happens once the walk is back beside the start point.
type refContourTracer struct {
	minPoints int
}

// NewReferenceContourTracer returns the default-configured reference
// ContourTracer, discarding contours shorter than 20 points as noise.
func NewReferenceContourTracer() ContourTracer {
	return refContourTracer{minPoints: 20}
}

var moorDirections = [8]ContourPoint{
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: 0},
	{X: -1, Y: -1},
	{X: 0, Y: -1},
	{X: 1, Y: -1},
}

func (t refContourTracer) Trace(binary *imaging.GrayImage) [][]ContourPoint {
	width, height := binary.Width, binary.Height
	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	minPoints := t.minPoints
	if minPoints <= 0 {
		minPoints = 20
	}

	var contours [][]ContourPoint
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if binary.At(x, y) != 0 && !visited[y][x] {
				contour := traceOne(binary, x, y, visited)
				if len(contour) >= minPoints {
					contours = append(contours, contour)
				}
			}
		}
	}
	return contours
}

// traceOne walks the boundary of one connected foreground region starting
// at (startX, startY), marking every visited pixel so Trace's outer scan
// never revisits it.
func traceOne(img *imaging.GrayImage, startX, startY int, visited [][]bool) []ContourPoint {
	width, height := img.Width, img.Height

	start := ContourPoint{X: startX, Y: startY}
	contour := []ContourPoint{start}
	visited[startY][startX] = true

	current := start
	dirIdx := 0

	for {
		found := false
		for i := 0; i < 8; i++ {
			idx := (dirIdx + i) % 8
			dir := moorDirections[idx]
			nx, ny := current.X+dir.X, current.Y+dir.Y

			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			if img.At(nx, ny) == 0 {
				continue
			}
			if visited[ny][nx] {
				continue
			}
			interior := true
			for _, d := range [4]ContourPoint{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
				bx, by := nx+d.X, ny+d.Y
				if bx < 0 || bx >= width || by < 0 || by >= height || img.At(bx, by) == 0 {
					interior = false
					break
				}
			}
			if interior {
				continue
			}

			visited[ny][nx] = true
			current = ContourPoint{X: nx, Y: ny}
			contour = append(contour, current)
			dirIdx = (idx + 4) % 8
			found = true
			break
		}

		if !found || (len(contour) > 2 && current == start) {
			break
		}
	}

	return contour
}
