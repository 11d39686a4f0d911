package software

import "github.com/chewxy/math32"

// minEdgeWidth is the narrowest anti-aliasing band, in pixels. A pixel
// center half a pixel inside an axis-aligned edge gets full coverage.
const minEdgeWidth = 0.5

// cornerRadius picks the radius for the quadrant containing (dx, dy),
// where (dx, dy) is relative to the rect center with y pointing down.
// Radii are ordered TL, TR, BR, BL.
func cornerRadius(dx, dy float32, radii [4]float32) float32 {
	switch {
	case dx < 0 && dy < 0:
		return radii[0]
	case dy < 0:
		return radii[1]
	case dx >= 0:
		return radii[2]
	default:
		return radii[3]
	}
}

// sdfRRect returns the signed distance from (dx, dy) to a rounded rect of
// the given half size centered at the origin. Negative is inside.
func sdfRRect(dx, dy, halfW, halfH, r float32) float32 {
	qx := math32.Abs(dx) - halfW + r
	qy := math32.Abs(dy) - halfH + r
	ox := math32.Max(qx, 0)
	oy := math32.Max(qy, 0)
	outside := math32.Sqrt(ox*ox + oy*oy)
	inside := math32.Min(math32.Max(qx, qy), 0)
	return outside + inside - r
}

// smoothstep is the Hermite interpolation used by the fragment shader.
func smoothstep(edge0, edge1, x float32) float32 {
	if edge1 <= edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := math32.Min(math32.Max((x-edge0)/(edge1-edge0), 0), 1)
	return t * t * (3 - 2*t)
}

// coverage converts a signed distance into fill coverage with an
// anti-aliasing band of half-width w.
func coverage(dist, w float32) float32 {
	return 1 - smoothstep(-w, w, dist)
}
