package domain

import "time"

// Member is one entry of a room roster. A roster never holds two
// members with the same UserID.
type Member struct {
	UserID   UserID    `json:"userId" validate:"required"`
	Username string    `json:"username" validate:"required"`
	IsReady  bool      `json:"isReady"`
	JoinedAt time.Time `json:"joinedAt"`
}

// IndexOf returns the position of id in members, or -1.
func IndexOf(members []Member, id UserID) int {
	for i := range members {
		if members[i].UserID == id {
			return i
		}
	}
	return -1
}
