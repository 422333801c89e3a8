package entity

type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

const BoardSize = 9

// WinCombos - rows, columns and diagonals, in evaluation order.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board - 9 cells in row-major order.
type Board [BoardSize]Mark

// Winner - returns the mark holding a full line, or Empty when there is none.
func (that Board) Winner() Mark {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != Empty && a == b && b == c {
			return a
		}
	}

	return Empty
}

func (that Board) Full() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// IsPlayable - reports whether cell is on the board and still empty.
func (that Board) IsPlayable(cell int) bool {
	return cell >= 0 && cell < BoardSize && that[cell] == Empty
}

// With - returns a copy of the board with cell set to mark.
func (that Board) With(cell int, mark Mark) Board {
	that[cell] = mark
	return that
}

func (that Mark) String() string {
	if that == Empty {
		return "-"
	}
	return string(that)
}
