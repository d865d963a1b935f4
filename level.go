// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim

// A Level is the state of a single wire. Besides the usual Low and High
// states, a wire can be Undef: either not yet driven since power-up or
// holding an unresolved metastable value. Undef is the zero value, so
// freshly allocated wires are undefined until something drives them.
type Level uint8

// Wire states.
const (
	Undef Level = iota
	Low
	High
)

// LevelOf converts a boolean to a defined wire state.
func LevelOf(b bool) Level {
	if b {
		return High
	}
	return Low
}

// Bool returns true if l is High. Undef reads as false; callers that
// must distinguish Undef from Low use IsDef.
func (l Level) Bool() bool { return l == High }

// IsDef returns true if l is a defined (non-Undef) state.
func (l Level) IsDef() bool { return l != Undef }

// Not returns the complement of l. The complement of Undef is Undef.
func (l Level) Not() Level {
	switch l {
	case Low:
		return High
	case High:
		return Low
	}
	return Undef
}

func (l Level) String() string {
	switch l {
	case Low:
		return "0"
	case High:
		return "1"
	}
	return "x"
}
