package geometry

import (
	"math"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// CameraConfig describes a perspective camera: its placement (Center/LookAt/
// Up), field of view, output resolution, and thin-lens depth-of-field
// parameters.
type CameraConfig struct {
	Center        core.Vec3
	LookAt        core.Vec3
	Up            core.Vec3
	Width         int
	AspectRatio   float64
	VFov          float64 // vertical field of view, in degrees
	Aperture      float64 // lens diameter; 0 = pinhole
	FocusDistance float64
}

// Camera is a perspective thin-lens camera generating primary rays and, for
// light-path (photon/BDPT-style) connections, importance-sampling points on
// its own lens from a scene-space reference point.
type Camera struct {
	config CameraConfig

	height int

	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	horizLen        float64
	vertLen         float64

	basisU  core.Vec3
	basisV  core.Vec3
	forward core.Vec3

	lensRadius    float64
	halfViewportW float64 // tan(vfov/2)*aspectRatio, at unit distance
	halfViewportH float64 // tan(vfov/2), at unit distance
}

// NewCamera builds a Camera from config, deriving its image-plane and lens
// basis from Center/LookAt/Up/VFov/Aperture/FocusDistance.
func NewCamera(config CameraConfig) *Camera {
	height := int(float64(config.Width) / config.AspectRatio)
	if height < 1 {
		height = 1
	}

	theta := config.VFov * math.Pi / 180.0
	halfHeight := math.Tan(theta / 2)
	halfWidth := config.AspectRatio * halfHeight

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	focusDist := config.FocusDistance
	if focusDist <= 0 {
		focusDist = 1.0
	}

	horizontal := u.Multiply(2 * halfWidth * focusDist)
	vertical := v.Multiply(2 * halfHeight * focusDist)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDist))

	return &Camera{
		config:          config,
		height:          height,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		horizLen:        horizontal.Length(),
		vertLen:         vertical.Length(),
		basisU:          u,
		basisV:          v,
		forward:         w.Negate(),
		lensRadius:      config.Aperture / 2,
		halfViewportW:   halfWidth,
		halfViewportH:   halfHeight,
	}
}

// Height returns the derived image height (Width / AspectRatio).
func (c *Camera) Height() int { return c.height }

// GetCameraForward returns the unit vector the camera looks along.
func (c *Camera) GetCameraForward() core.Vec3 { return c.forward }

// GetRay generates a primary ray through pixel (pixelX, pixelY), jittered
// within the pixel by jitterSample for antialiasing and offset on the lens
// by lensSample for depth of field.
func (c *Camera) GetRay(pixelX, pixelY int, lensSample, jitterSample core.Vec2) core.Ray {
	s := (float64(pixelX) + jitterSample.X) / float64(c.config.Width)
	t := 1.0 - (float64(pixelY)+jitterSample.Y)/float64(c.height)

	origin := c.config.Center
	if c.lensRadius > 0 {
		dx, dy := core.SampleConcentricDisk(lensSample)
		offset := c.basisU.Multiply(dx * c.lensRadius).Add(c.basisV.Multiply(dy * c.lensRadius))
		origin = origin.Add(offset)
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction.Normalize())
}

// MapRayToPixel inverts GetRay's projection, returning the pixel a ray
// (assumed to originate at or near the camera) passes through. Returns
// ok=false for rays that point away from the camera or fall outside the
// image plane.
func (c *Camera) MapRayToPixel(ray core.Ray) (x, y int, ok bool) {
	dir := ray.Direction
	forwardComp := -dir.Dot(c.w())
	if forwardComp <= 0 {
		return 0, 0, false
	}

	uComp := dir.Dot(c.basisU)
	vComp := dir.Dot(c.basisV)

	focusDist := c.config.FocusDistance
	if focusDist <= 0 {
		focusDist = 1.0
	}

	s := (uComp/forwardComp*focusDist+c.horizLen/2)/c.horizLen
	t := (vComp/forwardComp*focusDist+c.vertLen/2)/c.vertLen

	px := s * float64(c.config.Width)
	py := (1 - t) * float64(c.height)

	x = int(math.Floor(px))
	y = int(math.Floor(py))
	if x < 0 || x >= c.config.Width || y < 0 || y >= c.height {
		return 0, 0, false
	}
	return x, y, true
}

// w returns the camera's backward basis vector (forward negated).
func (c *Camera) w() core.Vec3 { return c.forward.Negate() }

// EvaluateRayImportance returns the camera's importance function We(ray)
// (PBRT's camera measurement term), zero for rays outside the field of view
// or pointing away from the camera.
func (c *Camera) EvaluateRayImportance(ray core.Ray) core.Vec3 {
	dir := ray.Direction
	forwardComp := dir.Dot(c.forward)
	if forwardComp <= 0 {
		return core.Vec3{}
	}

	uComp := dir.Dot(c.basisU)
	vComp := dir.Dot(c.basisV)
	tx := uComp / forwardComp
	ty := vComp / forwardComp
	if math.Abs(tx) > c.halfViewportW || math.Abs(ty) > c.halfViewportH {
		return core.Vec3{}
	}

	cosTheta := dir.Normalize().Dot(c.forward)
	if cosTheta <= 0 {
		return core.Vec3{}
	}

	area := 4 * c.halfViewportW * c.halfViewportH
	lensArea := math.Pi * c.lensRadius * c.lensRadius
	if lensArea <= 0 {
		lensArea = 1
	}
	we := 1.0 / (area * lensArea * cosTheta * cosTheta * cosTheta * cosTheta)
	return core.NewVec3(we, we, we)
}

// CameraSample is the result of importance-sampling the camera's lens from a
// scene-space reference point, used by light-path tracing to connect a
// photon or light-subpath vertex directly to the camera.
type CameraSample struct {
	Ray    core.Ray
	PDF    float64
	Weight core.Vec3
}

// SampleCameraFromPoint samples a point on the camera's lens (the origin, for
// a pinhole camera) and returns a CameraSample connecting it to refPoint, or
// nil if refPoint is behind the camera or outside its field of view.
func (c *Camera) SampleCameraFromPoint(refPoint core.Vec3, lensSample core.Vec2) *CameraSample {
	origin := c.config.Center
	if c.lensRadius > 0 {
		dx, dy := core.SampleConcentricDisk(lensSample)
		offset := c.basisU.Multiply(dx * c.lensRadius).Add(c.basisV.Multiply(dy * c.lensRadius))
		origin = origin.Add(offset)
	}

	toPoint := refPoint.Subtract(origin)
	dist := toPoint.Length()
	if dist < 1e-9 {
		return nil
	}
	dir := toPoint.Multiply(1.0 / dist)

	ray := core.NewRay(origin, dir)
	we := c.EvaluateRayImportance(ray)
	if we.Luminance() <= 0 {
		return nil
	}

	cosTheta := dir.Dot(c.forward)
	if cosTheta <= 0 {
		return nil
	}

	lensArea := math.Pi * c.lensRadius * c.lensRadius
	if lensArea <= 0 {
		lensArea = 1
	}
	pdfArea := 1.0 / lensArea
	pdf := pdfArea * dist * dist / cosTheta

	return &CameraSample{Ray: ray, PDF: pdf, Weight: we}
}
