package domain

// ChatEntry is one line of the room transcript. ClientID is set only on
// entries this client sent itself.
type ChatEntry struct {
	ClientID string `json:"clientId,omitempty"`
	Username string `json:"username" validate:"required"`
	Content  string `json:"content" validate:"required"`
}
