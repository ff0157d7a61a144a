/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

// Player is one of the two fixed sides of a game. PlayerA always owns the
// actress list and PlayerB always owns the actor list.
type Player int

const (
	PlayerA Player = iota
	PlayerB
)

func (p Player) Other() Player {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	default:
		return "?"
	}
}

// Outcome is the terminal result of a game.
//
// Undetermined is never produced by Play for a well-formed state; seeing it
// means the move rule ran against an empty list.
type Outcome int

const (
	Undetermined Outcome = iota
	WinnerA
	WinnerB
)

// WinnerOf returns the outcome in which p wins.
func WinnerOf(p Player) Outcome {
	if p == PlayerA {
		return WinnerA
	}
	return WinnerB
}

// Winner reports which player won. ok is false for Undetermined.
func (o Outcome) Winner() (p Player, ok bool) {
	switch o {
	case WinnerA:
		return PlayerA, true
	case WinnerB:
		return PlayerB, true
	default:
		return 0, false
	}
}

func (o Outcome) String() string {
	switch o {
	case WinnerA:
		return "winner_a"
	case WinnerB:
		return "winner_b"
	default:
		return "undetermined"
	}
}
