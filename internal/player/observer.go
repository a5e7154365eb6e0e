package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const EyeHeight = 1.62

// Observer is the viewpoint the world streams around. Yaw and Pitch are in
// degrees; yaw 0 looks down +X.
type Observer struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

// Look turns the observer by the given deltas. Pitch is kept within ±89°.
func (o *Observer) Look(dyaw, dpitch float64) {
	o.Yaw = math.Mod(o.Yaw+dyaw, 360)
	o.Pitch = max(-89, min(89, o.Pitch+dpitch))
}

// Front is the unit look direction.
func (o *Observer) Front() mgl64.Vec3 {
	y := mgl64.DegToRad(o.Yaw)
	p := mgl64.DegToRad(o.Pitch)
	return mgl64.Vec3{
		math.Cos(y) * math.Cos(p),
		math.Sin(p),
		math.Sin(y) * math.Cos(p),
	}.Normalize()
}

// Eye is where the look ray starts.
func (o *Observer) Eye() mgl64.Vec3 {
	return o.Position.Add(mgl64.Vec3{0, EyeHeight, 0})
}

// Move translates the observer along its horizontal heading and the world
// up axis.
func (o *Observer) Move(forward, strafe, up float64) {
	y := mgl64.DegToRad(o.Yaw)
	heading := mgl64.Vec3{math.Cos(y), 0, math.Sin(y)}
	right := mgl64.Vec3{-math.Sin(y), 0, math.Cos(y)}
	o.Position = o.Position.
		Add(heading.Mul(forward)).
		Add(right.Mul(strafe)).
		Add(mgl64.Vec3{0, up, 0})
}
