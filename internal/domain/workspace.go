package domain

const (
	// MainWorkspaceID is the root workspace that always exists and cannot be removed
	MainWorkspaceID = "main"
	// MainWorkspaceName is the display name of the root workspace
	MainWorkspaceName = "Main Workspace"
	// DefaultWorkspaceName is used when a workspace is created without a name
	DefaultWorkspaceName = "Untitled Workspace"
	// DefaultText is the initial content of every new workspace
	DefaultText = "# Collaborative Editor\n# Start typing to test real-time sync!\n\n"
)

// WorkspaceSummary is the listing form of a workspace
type WorkspaceSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkspaceInfo is a workspace summary tagged with its current version
type WorkspaceInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// Change describes one applied edit: the half-open range [Start, OldEnd) of the
// text as it was before the edit was replaced by NewEnd-Start characters.
type Change struct {
	Version int `json:"version,omitempty"`
	Start   int `json:"start"`
	OldEnd  int `json:"old_end"`
	NewEnd  int `json:"new_end"`
}

// ChangeSpan is the wire form of a change broadcast with a sync
type ChangeSpan struct {
	Start  int `json:"start"`
	OldEnd int `json:"old_end"`
	NewEnd int `json:"new_end"`
}

// Span drops the version from the change
func (c Change) Span() ChangeSpan {
	return ChangeSpan{Start: c.Start, OldEnd: c.OldEnd, NewEnd: c.NewEnd}
}

// Segment is a colored half-open range [Start, End) of the current text
type Segment struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Color string `json:"color"`
}

// Snapshot is a consistent copy of a workspace's document state
type Snapshot struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	Version  int       `json:"version"`
}

// Info returns the versioned summary of the snapshot
func (s Snapshot) Info() WorkspaceInfo {
	return WorkspaceInfo{ID: s.ID, Name: s.Name, Version: s.Version}
}

// SyncResult is the outcome of one committed reconciliation
type SyncResult struct {
	WorkspaceID string
	Text        string
	Segments    []Segment
	Change      Change
	Version     int
}

// WorkspaceUpdate carries the optional fields of an administrative update
type WorkspaceUpdate struct {
	Name     *string
	Text     *string
	Segments []Segment
	// SegmentsSet distinguishes an explicit empty list from an absent one
	SegmentsSet bool
}
