package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/view"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	cellStyle    = lipgloss.NewStyle().Width(3).Align(lipgloss.Center).Border(lipgloss.NormalBorder(), false, true, true, false)
	xStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	oStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238"))
	activeStyle  = lipgloss.NewStyle().Bold(true)
	historyStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const helpText = "1-9 play  up/down select  enter jump  s sort  r restart  q quit"

// Model - a local two-player game in the terminal.
type Model struct {
	history *entity.GameHistory
	order   entity.SortOrder
	cursor  int
}

func New() Model {
	return Model{
		history: entity.NewGameHistory(),
		order:   entity.NewSortOrder(),
	}
}

func (that Model) Init() tea.Cmd {
	return nil
}

func (that Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return that, nil
	}

	switch key := keyMsg.String(); key {
	case "q", "ctrl+c":
		return that, tea.Quit
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		that.history.Play(int(key[0] - '1'))
		that.cursor = that.activeRow()
	case "up", "k":
		if that.cursor > 0 {
			that.cursor--
		}
	case "down", "j":
		if that.cursor < that.history.Len()-1 {
			that.cursor++
		}
	case "enter":
		moves := view.Render(that.history, that.order).Moves
		// cursor always points into the rendered list
		_ = that.history.JumpTo(moves[that.cursor].Move)
	case "s":
		that.order.Toggle()
		that.cursor = that.activeRow()
	case "r":
		that.history = entity.NewGameHistory()
		that.cursor = 0
	}

	return that, nil
}

// activeRow - position of the current move in the rendered list.
func (that Model) activeRow() int {
	for row, move := range view.Render(that.history, that.order).Moves {
		if move.Active {
			return row
		}
	}

	return 0
}

func (that Model) View() string {
	rendered := view.Render(that.history, that.order)

	var board strings.Builder
	for _, row := range rendered.Rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cellStyle.Render(markText(cell)))
		}
		board.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		board.WriteString("\n")
	}

	var moves strings.Builder
	for row, move := range rendered.Moves {
		line := move.Label
		if move.Active {
			line = activeStyle.Render(line)
		}
		if row == that.cursor {
			line = cursorStyle.Render(line)
		}
		moves.WriteString(line)
		moves.WriteString("\n")
	}
	moves.WriteString(hintStyle.Render("[s] " + rendered.SortLabel))

	left := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Tic-Tac-Toe"),
		statusStyle.Render(rendered.Status),
		board.String(),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", historyStyle.Render(moves.String()))

	return body + "\n" + hintStyle.Render(helpText) + "\n"
}

func markText(cell view.Cell) string {
	switch cell.Mark {
	case entity.X:
		return xStyle.Render("X")
	case entity.O:
		return oStyle.Render("O")
	default:
		return hintStyle.Render(string(rune('1' + cell.Index)))
	}
}
