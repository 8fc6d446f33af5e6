package core

// RepeatMode controls what happens when the queue cursor reaches either end.
type RepeatMode string

const (
	RepeatNone RepeatMode = "none" // stop at the end of the queue
	RepeatOne  RepeatMode = "one"  // replay the current track
	RepeatAll  RepeatMode = "all"  // wrap around
)

// RepeatModes lists the accepted repeat modes in cycle order.
func RepeatModes() []RepeatMode {
	return []RepeatMode{RepeatNone, RepeatOne, RepeatAll}
}

// Valid reports whether m is one of the known repeat modes.
func (m RepeatMode) Valid() bool {
	switch m {
	case RepeatNone, RepeatOne, RepeatAll:
		return true
	}
	return false
}

// Next returns the mode that follows m in the none -> one -> all cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatOne
	case RepeatOne:
		return RepeatAll
	default:
		return RepeatNone
	}
}

func (m RepeatMode) String() string {
	return string(m)
}

// ParseRepeatMode converts s to a RepeatMode. ok is false for unknown values.
func ParseRepeatMode(s string) (mode RepeatMode, ok bool) {
	mode = RepeatMode(s)
	if !mode.Valid() {
		return RepeatNone, false
	}
	return mode, true
}
