package monster

// MonsterState is the AI state of a mob
type MonsterState int

const (
	StateWandering MonsterState = iota
	StatePursuing
	StateAttacking
	StateDying
)

func (s MonsterState) String() string {
	switch s {
	case StatePursuing:
		return "pursuing"
	case StateAttacking:
		return "attacking"
	case StateDying:
		return "dying"
	default:
		return "wandering"
	}
}
