package render

import "math"

type vec3 struct {
	X, Y, Z float64
}

func (v vec3) scale(s float64) vec3 { return vec3{v.X * s, v.Y * s, v.Z * s} }

// camera is a turntable view: azimuth about the vertical axis, then
// elevation about the screen x axis.
type camera struct {
	Elevation, Azimuth float64
	Dist               float64
	Zoom               float64
}

// defaultCamera looks down 30 degrees at azimuth -60 degrees.
func defaultCamera() camera {
	return camera{
		Elevation: 30 * math.Pi / 180,
		Azimuth:   -60 * math.Pi / 180,
		Dist:      6,
		Zoom:      1,
	}
}

func (c camera) rotate(p vec3) vec3 {
	cy, sy := math.Cos(c.Azimuth), math.Sin(c.Azimuth)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.Elevation), math.Sin(c.Elevation)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// project maps a world point into r. Larger depth is nearer the viewer.
func (c camera) project(p vec3, r rect) (x, y, depth float64) {
	rot := c.rotate(p).scale(c.Zoom)
	s := c.Dist / (c.Dist - rot.Z)
	px := math.Min(r.W, r.H) / 3
	cx, cy := r.center()
	return cx + rot.X*s*px, cy - rot.Y*s*px, rot.Z
}
