package sim

import "voxelrift/internal/player"

// Input is one frame of player intent. Held states are compared against the previous
// frame inside the simulation; the *Pressed fields are one-frame presses.
type Input struct {
	Forward, Backward, Left, Right bool
	Sprint                         bool
	JumpPressed                    bool
	Yaw, Pitch                     float64

	Fire bool // held
	Aim  bool // held

	ReloadPressed  bool
	GrenadePressed bool
	AxePressed     bool
	StealthPressed bool
	CameraPressed  bool

	SelectWeapon string // empty for no change
	CycleWeapon  int    // +1 next, -1 previous
}

func (in Input) controls() player.Controls {
	return player.Controls{
		Forward:  in.Forward,
		Backward: in.Backward,
		Left:     in.Left,
		Right:    in.Right,
		Sprint:   in.Sprint,
		Jump:     in.JumpPressed,
		Yaw:      in.Yaw,
		Pitch:    in.Pitch,
	}
}
