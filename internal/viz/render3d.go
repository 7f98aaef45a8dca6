package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/kitesim/internal/geom"
	"github.com/san-kum/kitesim/internal/kite"
)

// Camera orbits the scene origin and projects view-space points onto the
// canvas with a simple perspective divide.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 3, Near: 0.1, RotX: -0.35, RotY: 0.6, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DZ(c.RotZ).Mul3(mgl64.Rotate3DY(c.RotY)).Mul3(mgl64.Rotate3DX(c.RotX))
}

// Project returns screen x, y, the depth after rotation and whether the point
// lands on a canvas of sw x sh sub-pixels.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.rotation().Mul3x1(p).Mul(c.Zoom)
	if rot[2] >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot[2])
	pScale := float64(min(sw, sh)) / 2.2
	sx := int(rot[0]*scale*pScale) + sw/2
	sy := int(-rot[1]*scale*pScale) + sh/2
	return sx, sy, rot[2], sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End mgl64.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe               { return &Wireframe{} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p mgl64.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Width*2, c.Height*4
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// toView maps a wind-reference point (x downwind, y lateral, z down) to view
// space (x right, y up, z towards the viewer), scaled by the tether length.
func toView(p mgl64.Vec3, r float64) mgl64.Vec3 {
	return mgl64.Vec3{p[1] / r, -p[2] / r, -p[0] / r}
}

// BoatDirection is the unit boat heading in the wind-reference frame.
func BoatDirection(s kite.State) mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(s.AWAB), math.Sin(s.AWAB), 0}
}

const windowSegments = 24

// KiteScene builds the wind window edge, its zenith arc, both tethers, the
// kite span and the boat heading for a tether of length r.
func KiteScene(s kite.State, out kite.Output, r float64) *Wireframe {
	w := NewWireframe()
	if r <= 0 {
		return w
	}
	arc := func(phi0, phi1, theta0, theta1 float64) {
		prev := toView(geom.TetherPoint(r, phi0, theta0), r)
		for i := 1; i <= windowSegments; i++ {
			t := float64(i) / windowSegments
			p := toView(geom.TetherPoint(r, phi0+t*(phi1-phi0), theta0+t*(theta1-theta0)), r)
			w.AddEdge(prev, p)
			prev = p
		}
	}
	arc(-math.Pi/2, math.Pi/2, 0, 0)
	arc(0, 0, 0, math.Pi/2)

	origin := mgl64.Vec3{}
	left, right := toView(out.LeftTether, r), toView(out.RightTether, r)
	w.AddEdge(origin, left)
	w.AddEdge(origin, right)
	w.AddEdge(left, right)
	w.AddEdge(origin, toView(BoatDirection(s).Mul(0.2*r), r))
	return w
}
