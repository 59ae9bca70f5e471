package sfx

//go:generate go tool stringer -type=State

// State is the state of a channel engine.
type State uint8

const (
	Idle State = iota
	FetchHeader
	FetchNote
	Attack
	Sustain
	Release
)

// Playing reports whether a channel in this state produces sound.
func (s State) Playing() bool {
	return s >= Attack && s <= Release
}

// Loading reports whether a channel in this state waits for memory.
func (s State) Loading() bool {
	return s == FetchHeader || s == FetchNote
}
