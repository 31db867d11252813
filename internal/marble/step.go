package marble

// Hit records which axes touched a wall during a step.
type Hit struct {
	X bool
	Y bool
}

// Any reports whether the step touched at least one wall.
func (h Hit) Any() bool { return h.X || h.Y }

// Count is the number of reflections in the step (0, 1 or 2).
func (h Hit) Count() int {
	n := 0
	if h.X {
		n++
	}
	if h.Y {
		n++
	}
	return n
}

// Advance applies one integration step to s. It performs no input
// validation; see Core.Step for the guarded version.
func Advance(s State, b Bounds, p Params, gravityX, gravityY, dt float64) (State, Hit) {
	vx := s.VelocityX + dt*p.Scale*gravityX
	vy := s.VelocityY + dt*p.Scale*gravityY

	vx *= p.Friction
	vy *= p.Friction

	x := s.X + vx
	y := s.Y + vy

	var hit Hit
	x, vx, hit.X = reflect(x, vx, b.MaxX, p.Restitution)
	y, vy, hit.Y = reflect(y, vy, b.MaxY, p.Restitution)

	return State{X: x, Y: y, VelocityX: vx, VelocityY: vy}, hit
}

func reflect(pos, vel, max, restitution float64) (float64, float64, bool) {
	if pos < 0 {
		return 0, -vel * restitution, true
	}
	if pos > max {
		return max, -vel * restitution, true
	}
	return pos, vel, false
}
