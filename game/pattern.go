package game

import (
	"math"
	"math/rand/v2"
)

// Aim is what a pattern may look at when choosing directions.
type Aim struct {
	// Owner is the shooting entity's position.
	Owner Point
	// Target is the centre of the player's hitbox. HasTarget is false when
	// there is no player.
	Target    Point
	HasTarget bool
	Rand      *rand.Rand
}

// Pattern computes the directions (degrees) of one volley. Stateful patterns
// advance on every call.
type Pattern interface {
	Directions(aim Aim) []float64
}

// FanKind selects how a base direction is spread into several shots.
type FanKind int

const (
	FanSingle FanKind = iota
	FanTriple
	FanFive
	FanDouble
	FanFour
)

// Fan spreads a base direction. Degrees is the spacing between shots for
// triple and five, and the full gap between the two centre shots for double
// and four.
type Fan struct {
	Kind    FanKind
	Degrees float64
}

// Triple, Five, Double and Four build the common fans.
func Triple(deg float64) Fan { return Fan{Kind: FanTriple, Degrees: deg} }
func Five(deg float64) Fan   { return Fan{Kind: FanFive, Degrees: deg} }
func Double(deg float64) Fan { return Fan{Kind: FanDouble, Degrees: deg} }
func Four(deg float64) Fan   { return Fan{Kind: FanFour, Degrees: deg} }

// Expand returns the directions of the fan around base.
func (f Fan) Expand(base float64) []float64 {
	d := f.Degrees
	switch f.Kind {
	case FanTriple:
		return []float64{base - d, base, base + d}
	case FanFive:
		return []float64{base - 2*d, base - d, base, base + d, base + 2*d}
	case FanDouble:
		return []float64{base - d/2, base + d/2}
	case FanFour:
		return []float64{base - d*3/2, base - d/2, base + d/2, base + d*3/2}
	default:
		return []float64{base}
	}
}

// FixedAngle always fires along Angle.
type FixedAngle struct {
	Angle float64
	Fan   Fan
}

func (p *FixedAngle) Directions(Aim) []float64 {
	return p.Fan.Expand(p.Angle)
}

// RandomAngle fires along a uniformly drawn whole-degree angle in [0, 360).
type RandomAngle struct {
	Fan Fan
}

func (p *RandomAngle) Directions(aim Aim) []float64 {
	var base float64
	if aim.Rand != nil {
		base = float64(aim.Rand.IntN(360))
	} else {
		base = float64(rand.IntN(360))
	}
	return p.Fan.Expand(base)
}

// Aimed fires at the player.
type Aimed struct {
	Fan Fan
}

func (p *Aimed) Directions(aim Aim) []float64 {
	if !aim.HasTarget {
		return p.Fan.Expand(0)
	}
	return p.Fan.Expand(AimAngle(aim.Owner, aim.Target))
}

// AimAngle is the direction from "from" to "to" computed as atan(dx/dy) in
// degrees. A target level with the shooter is straight to the right (90°) or
// left (270°).
func AimAngle(from, to Point) float64 {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if dy == 0 {
		if dx >= 0 {
			return 90
		}
		return 270
	}
	return atanDeg(dx, dy)
}

// Rotating fires Count evenly spaced shots and turns by Step every volley.
type Rotating struct {
	Count   int
	Step    float64
	Current float64
}

func (p *Rotating) Directions(Aim) []float64 {
	dirs := ring(p.Current, p.Count)
	p.Current += p.Step
	return dirs
}

// ModulatedRotating is a Rotating whose step is Amplitude·sin(phase), with
// the phase advancing by PhaseStep degrees every volley.
type ModulatedRotating struct {
	Count     int
	PhaseStep float64
	Amplitude float64
	Current   float64
	Phase     float64
}

func (p *ModulatedRotating) Directions(Aim) []float64 {
	p.Phase += p.PhaseStep
	dirs := ring(p.Current, p.Count)
	p.Current += p.Amplitude * math.Sin(p.Phase*math.Pi/180)
	return dirs
}

func ring(current float64, count int) []float64 {
	if count < 1 {
		return nil
	}
	spacing := 360 / float64(count)
	dirs := make([]float64, count)
	for i := range dirs {
		dirs[i] = current - float64(i)*spacing
	}
	return dirs
}
