package domain

// RoundState is replaced as a whole whenever a round begins.
type RoundState struct {
	CurrentRound   int    `json:"currentRound"`
	Theme          string `json:"theme"`
	ActiveDrawerID UserID `json:"activeDrawerId"`
}

// IsDrawer reports whether id is the member drawing this round.
func (r RoundState) IsDrawer(id UserID) bool {
	return id != "" && r.ActiveDrawerID == id
}
