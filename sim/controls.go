package sim

// RaiseBounciness increases bounciness by one step, up to the configured maximum.
func (w *World) RaiseBounciness() {
	w.SetBounciness(w.bounciness + float32(w.cfg.Controls.BouncinessStep))
}

// LowerBounciness decreases bounciness by one step, down to the configured minimum.
func (w *World) LowerBounciness() {
	w.SetBounciness(w.bounciness - float32(w.cfg.Controls.BouncinessStep))
}

// SetBounciness sets bounciness, clamped to the configured range.
func (w *World) SetBounciness(v float32) {
	c := w.cfg.Controls
	w.bounciness = clamp(v, float32(c.BouncinessMin), float32(c.BouncinessMax))
}

// ToggleGravity switches between vertical and centripetal gravity.
func (w *World) ToggleGravity() {
	w.gravity = w.gravity.Toggle()
}

// SetGravity sets the gravity mode.
func (w *World) SetGravity(m GravityMode) {
	w.gravity = m
}

// IncreaseSpawn adds one to the number of balls spawned per escape.
func (w *World) IncreaseSpawn() {
	w.toSpawn++
}

// DecreaseSpawn removes one from the number of balls spawned per escape, never below 1.
func (w *World) DecreaseSpawn() {
	if w.toSpawn > 1 {
		w.toSpawn--
	}
}

// SetFriction sets the per-tick velocity damping factor.
func (w *World) SetFriction(v float32) {
	w.friction = v
}
