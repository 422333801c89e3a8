package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoard_Winner(t *testing.T) {
	t.Run("Returns the mark of every winning line", func(t *testing.T) {
		for _, mark := range []Mark{X, O} {
			for _, combo := range WinCombos {
				// Given: a board where one line is filled with the same mark
				var board Board
				for _, cell := range combo {
					board[cell] = mark
				}

				// When: evaluating the board
				winner := board.Winner()

				// Then: the mark of the line should be returned
				assert.Equal(t, mark, winner, "combo %v", combo)
			}
		}
	})

	t.Run("Returns Empty when the game is ongoing", func(t *testing.T) {
		// Given: a board with no complete line
		board := Board{
			X, O, Empty,
			Empty, X, Empty,
			Empty, Empty, O,
		}

		// When: evaluating the board
		winner := board.Winner()

		// Then: there should be no winner
		assert.Equal(t, Empty, winner)
	})

	t.Run("Returns Empty on a full board without a line", func(t *testing.T) {
		// Given: a drawn board
		board := Board{
			X, O, X,
			O, X, O,
			O, X, O,
		}

		// When: evaluating the board
		winner := board.Winner()

		// Then: there should be no winner and the board should be full
		assert.Equal(t, Empty, winner)
		assert.True(t, board.Full())
	})

	t.Run("First line in evaluation order wins", func(t *testing.T) {
		// Given: a board with two lines of different marks
		board := Board{
			O, O, O,
			X, X, X,
			Empty, Empty, Empty,
		}

		// When: evaluating the board
		winner := board.Winner()

		// Then: the top row should be reported
		assert.Equal(t, O, winner)
	})

	t.Run("Does not modify the board", func(t *testing.T) {
		// Given: a board with a winning diagonal
		board := Board{X, O, Empty, O, X, Empty, Empty, Empty, X}
		before := board

		// When: evaluating the board
		_ = board.Winner()

		// Then: the board should stay the same
		assert.Equal(t, before, board)
	})
}

func TestBoard_With(t *testing.T) {
	// Given: an empty board
	var board Board

	// When: placing a mark
	next := board.With(4, X)

	// Then: the new board should hold the mark and the old one should stay empty
	assert.Equal(t, X, next[4])
	assert.Equal(t, Empty, board[4])
}

func TestBoard_IsPlayable(t *testing.T) {
	board := Board{X}

	assert.False(t, board.IsPlayable(0))
	assert.True(t, board.IsPlayable(1))
	assert.False(t, board.IsPlayable(-1))
	assert.False(t, board.IsPlayable(BoardSize))
}
