package game

import (
	"errors"
	"reflect"
	"testing"
)

func chainMovies() []Movie {
	return []Movie{
		NewMovie("one", "A1", "B1"),
		NewMovie("two", "B1", "A2"),
		NewMovie("three", "A2", "B2"),
		NewMovie("four", "B2", "A3"),
		NewMovie("five", "A3", "B3"),
	}
}

func TestPlayEmptyActiveListLoses(t *testing.T) {
	movies := chainMovies()

	cases := []struct {
		name   string
		listA  []string
		listB  []string
		active Player
		want   Outcome
	}{
		{"a to move with nothing", nil, []string{"B1"}, PlayerA, WinnerB},
		{"b to move with nothing", []string{"A1"}, nil, PlayerB, WinnerA},
		{"both empty a to move", nil, nil, PlayerA, WinnerB},
		{"both empty b to move", nil, nil, PlayerB, WinnerA},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, token := range []string{"", "A1", "nobody"} {
				if got := Play(movies, tc.listA, tc.listB, tc.active, token); got != tc.want {
					t.Fatalf("token %q: got %v, want %v", token, got, tc.want)
				}
				if got := Play(nil, tc.listA, tc.listB, tc.active, token); got != tc.want {
					t.Fatalf("token %q without movies: got %v, want %v", token, got, tc.want)
				}
			}
		})
	}
}

func TestPlayScenarioNoSharedMovie(t *testing.T) {
	s, err := Seed([]string{"Ann"}, []string{"Bob"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(s.ListA) != 0 || s.Active != PlayerB || s.Token != "Ann" {
		t.Fatalf("unexpected seeded state: %+v", s)
	}

	if got := Play(nil, s.ListA, s.ListB, s.Active, s.Token); got != WinnerA {
		t.Fatalf("got %v, want %v", got, WinnerA)
	}
}

func TestPlayScenarioSharedMovie(t *testing.T) {
	movies := []Movie{NewMovie("Together", "Ann", "Bob")}

	s, err := Seed([]string{"Ann"}, []string{"Bob"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	outcome, moves := Replay(NewCatalog(movies), s)
	if outcome != WinnerB {
		t.Fatalf("got %v, want %v", outcome, WinnerB)
	}

	want := []Move{{Player: PlayerB, Name: "Bob", Token: "Ann", Via: []string{"Together"}}}
	if !reflect.DeepEqual(moves, want) {
		t.Fatalf("moves = %+v, want %+v", moves, want)
	}
}

func TestPlayScenarioFullChain(t *testing.T) {
	s, err := Seed([]string{"A1", "A2", "A3"}, []string{"B1", "B2", "B3"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	outcome, moves := Replay(NewCatalog(chainMovies()), s)
	if outcome != WinnerB {
		t.Fatalf("got %v, want %v", outcome, WinnerB)
	}

	var names []string
	for _, m := range moves {
		names = append(names, m.Name)
	}
	if want := []string{"B1", "A2", "B2", "A3", "B3"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("played %v, want %v", names, want)
	}
	if len(moves) > s.Remaining() {
		t.Fatalf("%d moves exceeds depth bound %d", len(moves), s.Remaining())
	}
}

func TestPlayOnlyHeadIsConsidered(t *testing.T) {
	movies := chainMovies()

	// B1 is connected to A1 but sits behind an unconnected head.
	if got := Play(movies, nil, []string{"B9", "B1"}, PlayerB, "A1"); got != WinnerA {
		t.Fatalf("got %v, want %v", got, WinnerA)
	}

	// The tail of the active list never changes the first step.
	c := NewCatalog(movies)
	base := State{ListA: []string{"A2"}, ListB: []string{"B1", "B2"}, Active: PlayerB, Token: "A1"}
	alt := State{ListA: []string{"A2"}, ListB: []string{"B1", "zzz", "B3"}, Active: PlayerB, Token: "A1"}

	n1, o1, d1 := Step(c, base)
	n2, o2, d2 := Step(c, alt)
	if d1 != d2 || o1 != o2 || n1.Token != n2.Token || n1.Active != n2.Active {
		t.Fatalf("step differs with only the tail changed: %+v/%v vs %+v/%v", n1, o1, n2, o2)
	}
}

func TestStepConnectedHead(t *testing.T) {
	c := NewCatalog(chainMovies())
	s := State{
		ListA:  []string{"A2", "A3"},
		ListB:  []string{"B1", "B2"},
		Active: PlayerB,
		Token:  "A1",
	}

	next, outcome, done := Step(c, s)
	if done {
		t.Fatalf("step finished the game with %v", outcome)
	}
	if next.Active != PlayerA {
		t.Fatalf("active = %v, want %v", next.Active, PlayerA)
	}
	if next.Token != "B1" {
		t.Fatalf("token = %q, want B1", next.Token)
	}
	if !reflect.DeepEqual(next.ListB, []string{"B2"}) {
		t.Fatalf("listB = %v, want [B2]", next.ListB)
	}
	if !reflect.DeepEqual(next.ListA, s.ListA) {
		t.Fatalf("listA changed: %v", next.ListA)
	}
}

func TestStepUnconnectedHeadLoses(t *testing.T) {
	c := NewCatalog(chainMovies())

	_, outcome, done := Step(c, State{
		ListA:  []string{"A3", "A2"},
		ListB:  []string{"B3"},
		Active: PlayerA,
		Token:  "B1",
	})
	if !done || outcome != WinnerB {
		t.Fatalf("got done=%v outcome=%v, want done=true outcome=%v", done, outcome, WinnerB)
	}
}

func TestPlayDoesNotMutateCallerLists(t *testing.T) {
	listA := []string{"A2", "A3"}
	listB := []string{"B1", "B2", "B3"}

	Play(chainMovies(), listA, listB, PlayerB, "A1")

	if !reflect.DeepEqual(listA, []string{"A2", "A3"}) || !reflect.DeepEqual(listB, []string{"B1", "B2", "B3"}) {
		t.Fatalf("caller lists modified: %v %v", listA, listB)
	}
}

func TestReplayOriginalCast(t *testing.T) {
	movies := []Movie{
		NewMovie("Inglourious Basterds", "DianaKruger", "MelanieLaurent", "BradPitt"),
		NewMovie("Sky", "DianaKruger", "NormanReedus"),
	}

	s, err := Seed([]string{"DianaKruger", "MelanieLaurent"}, []string{"BradPitt", "NormanReedus"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	outcome, moves := Replay(NewCatalog(movies), s)
	if outcome != WinnerA {
		t.Fatalf("got %v, want %v", outcome, WinnerA)
	}
	if len(moves) != 2 || moves[0].Name != "BradPitt" || moves[1].Name != "MelanieLaurent" {
		t.Fatalf("unexpected moves %+v", moves)
	}
}

func TestSeedEmptyActresses(t *testing.T) {
	if _, err := Seed(nil, []string{"B1"}); !errors.Is(err, ErrNoGame) {
		t.Fatalf("expected ErrNoGame, got %v", err)
	}
}

func TestMoveEmptyListIsUndetermined(t *testing.T) {
	_, outcome, done, err := move(NewCatalog(nil), State{Active: PlayerA, ListB: []string{"B1"}})
	if !errors.Is(err, ErrEmptyActiveList) {
		t.Fatalf("expected ErrEmptyActiveList, got %v", err)
	}
	if !done || outcome != Undetermined {
		t.Fatalf("got done=%v outcome=%v", done, outcome)
	}
}

func TestCatalogSharedTitles(t *testing.T) {
	c := NewCatalog([]Movie{
		NewMovie("x", "a", "b"),
		NewMovie("y", "a"),
		NewMovie("z", "b", "a", "c"),
	})

	if got := c.SharedTitles("a", "b"); !reflect.DeepEqual(got, []string{"x", "z"}) {
		t.Fatalf("shared titles = %v", got)
	}
	if c.Connected("b", "y") || !c.Connected("c", "b") {
		t.Fatal("unexpected connectivity")
	}
}
