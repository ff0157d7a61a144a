/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package game decides the winner of a costars game.
//
// Two players alternate naming performers from their own ordered lists: the
// actresses belong to PlayerA and the actors to PlayerB. A name may only be
// played if it shares a movie with the name the other side played last (the
// turn token). Only the head of the moving player's list is ever considered;
// if it is not connected to the token the mover loses on the spot, and a
// player who has to move with an empty list loses as well.
package game

import "errors"

var (
	ErrEmptyActiveList = errors.New("active player has no names left")
	ErrNoGame          = errors.New("actress list is empty, no game played")
)

// State is everything needed to take the next turn.
type State struct {
	ListA  []string
	ListB  []string
	Active Player
	Token  string
}

// List returns the remaining names of p.
func (s State) List(p Player) []string {
	if p == PlayerA {
		return s.ListA
	}
	return s.ListB
}

// Remaining is the upper bound on the number of turns left in the game.
func (s State) Remaining() int {
	return len(s.ListA) + len(s.ListB)
}

// Move records one consumed name.
type Move struct {
	Player Player   `json:"player"`
	Name   string   `json:"name"`
	Token  string   `json:"token"`
	Via    []string `json:"via"`
}

// Seed applies the opening rule: the first actress counts as already played,
// becomes the turn token, and PlayerB moves first against the full actor list.
func Seed(actresses, actors []string) (State, error) {
	if len(actresses) == 0 {
		return State{}, ErrNoGame
	}

	return State{
		ListA:  shrink(actresses),
		ListB:  actors,
		Active: PlayerB,
		Token:  actresses[0],
	}, nil
}

// Play runs the game to completion from the given state.
func Play(movies []Movie, listA, listB []string, active Player, token string) Outcome {
	outcome, _ := Replay(NewCatalog(movies), State{
		ListA:  listA,
		ListB:  listB,
		Active: active,
		Token:  token,
	})
	return outcome
}

// Replay runs the game to completion and returns every move taken on the way.
// len(moves) never exceeds s.Remaining().
func Replay(c *Catalog, s State) (Outcome, []Move) {
	moves := make([]Move, 0, s.Remaining())

	for {
		next, outcome, done := Step(c, s)
		if done {
			return outcome, moves
		}

		name := s.List(s.Active)[0]
		moves = append(moves, Move{
			Player: s.Active,
			Name:   name,
			Token:  s.Token,
			Via:    c.SharedTitles(name, s.Token),
		})

		s = next
	}
}

// Step takes a single turn. When done is false the game continues from next;
// otherwise outcome holds the result.
func Step(c *Catalog, s State) (next State, outcome Outcome, done bool) {
	if len(s.List(s.Active)) == 0 {
		return s, WinnerOf(s.Active.Other()), true
	}

	next, outcome, done, _ = move(c, s)
	return next, outcome, done
}

// move applies the head-only move rule to the active list.
func move(c *Catalog, s State) (State, Outcome, bool, error) {
	list := s.List(s.Active)
	if len(list) == 0 {
		return s, Undetermined, true, ErrEmptyActiveList
	}

	head := list[0]
	if !c.Connected(head, s.Token) {
		return s, WinnerOf(s.Active.Other()), true, nil
	}

	next := State{
		ListA:  s.ListA,
		ListB:  s.ListB,
		Active: s.Active.Other(),
		Token:  head,
	}
	if s.Active == PlayerA {
		next.ListA = shrink(list)
	} else {
		next.ListB = shrink(list)
	}

	return next, Undetermined, false, nil
}

// shrink drops the head. The result is capped so appending to it can never
// write into the caller's backing array.
func shrink(list []string) []string {
	return list[1:len(list):len(list)]
}
