package entity

// Session - one player's game and move list preferences.
type Session struct {
	ID      string       `json:"id"`
	History *GameHistory `json:"history"`
	Order   SortOrder    `json:"order"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		History: NewGameHistory(),
		Order:   NewSortOrder(),
	}
}

// Restart - drops the history, the chosen order stays.
func (that *Session) Restart() {
	that.History = NewGameHistory()
}
