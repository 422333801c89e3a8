package view

import (
	"slices"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const rowSize = 3

// Cell - one square of the rendered board.
type Cell struct {
	Index    int         `json:"index"`
	Mark     entity.Mark `json:"mark"`
	Playable bool        `json:"playable"`
}

// View - everything a client needs to draw a session.
type View struct {
	Status      string                  `json:"status"`
	Winner      entity.Mark             `json:"winner"`
	Draw        bool                    `json:"draw"`
	Next        entity.Mark             `json:"next"`
	Rows        [rowSize][rowSize]Cell  `json:"rows"`
	Moves       []entity.MoveDescriptor `json:"moves"`
	CurrentMove int                     `json:"current_move"`
	SortLabel   string                  `json:"sort_label"`
	Ascending   bool                    `json:"ascending"`
}

// Render - builds the view of a history shown in the given order.
func Render(history *entity.GameHistory, order entity.SortOrder) View {
	status := history.Status()
	board := history.Current()

	result := View{
		Status:      status.String(),
		Winner:      status.Winner,
		Draw:        status.Draw,
		Next:        status.Next,
		Moves:       order.Apply(slices.Collect(history.DescribeMoves())),
		CurrentMove: history.CurrentMove,
		SortLabel:   order.Label(),
		Ascending:   order.Ascending,
	}

	for index, mark := range board {
		result.Rows[index/rowSize][index%rowSize] = Cell{
			Index:    index,
			Mark:     mark,
			Playable: !status.IsOver() && mark == entity.Empty,
		}
	}

	return result
}

// RenderSession - Render for a stored session.
func RenderSession(session *entity.Session) View {
	return Render(session.History, session.Order)
}
