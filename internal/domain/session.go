package domain

// Session is one connected participant
type Session struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Cursor      int    `json:"cursor"`
	WorkspaceID string `json:"workspaceId"`
}

// Presence is the public view of a session shown to its peers
type Presence struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Presence returns the public view of the session
func (s Session) Presence() Presence {
	return Presence{ID: s.ID, Name: s.Name, Color: s.Color}
}
