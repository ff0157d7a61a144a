/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

// Labels are the strings printed for each outcome.
type Labels struct {
	A    string
	B    string
	None string
}

var DefaultLabels = Labels{
	A:    "Veronique",
	B:    "Mark",
	None: "No winner.",
}

func (l Labels) Name(p Player) string {
	if p == PlayerA {
		return l.A
	}
	return l.B
}

func (l Labels) Render(o Outcome) string {
	if p, ok := o.Winner(); ok {
		return l.Name(p)
	}
	return l.None
}
