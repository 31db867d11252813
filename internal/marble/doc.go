// Package marble implements the physics core of the tilt marble.
//
// The core owns the marble's kinematic state and the screen bounds, and
// advances the state one gravity sample at a time:
//
//   - [State]: immutable position/velocity snapshot
//   - [Bounds]: valid top-left positions for a viewport
//   - [Params]: tunable constants (radius, scale, friction, restitution)
//   - [Advance]: the pure explicit-Euler bounce step
//   - [Core]: owns the current state and applies the sample guards
//
// # Integration law
//
// Each accepted sample runs, in order:
//
//	v += dt * Scale * g
//	v *= Friction
//	p += v
//	clamp p to [0, Max]; on contact v = -v * Restitution
//
// Friction is per step and is not scaled by dt.
//
// # Thread Safety
//
// Core is NOT safe for concurrent use. Callers deliver samples and bounds
// updates from a single goroutine (see package sim).
package marble
