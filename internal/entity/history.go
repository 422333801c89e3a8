package entity

import (
	"fmt"
	"iter"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
)

const (
	labelGameStart = "Go to game start"
	labelCurrent   = "You are at move #"
	labelGoTo      = "Go to move #"
)

// GameHistory holds every board reached in the game and the selected one.
type GameHistory struct {
	Snapshots   []Board `json:"snapshots"`
	CurrentMove int     `json:"current_move"`
}

// MoveDescriptor describes one entry of the move list.
type MoveDescriptor struct {
	Move   int    `json:"move"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Status - outcome of the live board.
type Status struct {
	Winner Mark `json:"winner"`
	Draw   bool `json:"draw"`
	Next   Mark `json:"next"`
}

func NewGameHistory() *GameHistory {
	return &GameHistory{
		Snapshots:   []Board{{}},
		CurrentMove: 0,
	}
}

// Current - the live board.
func (that *GameHistory) Current() Board {
	return that.Snapshots[that.CurrentMove]
}

func (that *GameHistory) Len() int {
	return len(that.Snapshots)
}

// NextMark - X on even moves, O on odd ones.
func (that *GameHistory) NextMark() Mark {
	if that.CurrentMove%2 == 0 {
		return X
	}
	return O
}

// Play - places the next mark on cell. Moves on an occupied or unknown cell and
// moves after the game was won are ignored; the result reports whether the move was taken.
func (that *GameHistory) Play(cell int) bool {
	current := that.Current()

	if !current.IsPlayable(cell) || current.Winner() != Empty {
		return false
	}

	next := current.With(cell, that.NextMark())

	snapshots := make([]Board, that.CurrentMove+1, that.CurrentMove+2)
	copy(snapshots, that.Snapshots[:that.CurrentMove+1])

	that.Snapshots = append(snapshots, next)
	that.CurrentMove = len(that.Snapshots) - 1

	return true
}

// JumpTo - selects a past snapshot without touching the history.
func (that *GameHistory) JumpTo(move int) error {
	if move < 0 || move >= len(that.Snapshots) {
		return fmt.Errorf("%w: move %d of %d", apperror.ErrMoveOutOfRange, move, len(that.Snapshots))
	}

	that.CurrentMove = move

	return nil
}

// DescribeMoves - yields one descriptor per snapshot, in move order.
func (that *GameHistory) DescribeMoves() iter.Seq[MoveDescriptor] {
	return func(yield func(MoveDescriptor) bool) {
		for move := range that.Snapshots {
			if !yield(that.describe(move)) {
				return
			}
		}
	}
}

func (that *GameHistory) describe(move int) MoveDescriptor {
	descriptor := MoveDescriptor{Move: move}

	switch {
	case move == that.CurrentMove:
		descriptor.Label = labelCurrent + strconv.Itoa(move)
		descriptor.Active = true
	case move == 0:
		descriptor.Label = labelGameStart
	default:
		descriptor.Label = labelGoTo + strconv.Itoa(move)
	}

	return descriptor
}

func (that *GameHistory) Status() Status {
	current := that.Current()

	if winner := current.Winner(); winner != Empty {
		return Status{Winner: winner}
	}

	if current.Full() {
		return Status{Draw: true}
	}

	return Status{Next: that.NextMark()}
}

// IsOver - a line is complete or no empty cell remains.
func (that Status) IsOver() bool {
	return that.Winner != Empty || that.Draw
}

func (that Status) String() string {
	switch {
	case that.Winner != Empty:
		return "Winner: " + string(that.Winner)
	case that.Draw:
		return "Draw"
	default:
		return "Next player: " + string(that.Next)
	}
}
