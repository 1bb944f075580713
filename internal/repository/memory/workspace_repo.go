package memory

import (
	"sort"
	"sync"

	"github.com/dafibh/collab/collab-backend/internal/collab"
	"github.com/dafibh/collab/collab-backend/internal/domain"
)

// WorkspaceRepository keeps one Document per workspace id for the lifetime
// of the process. It is safe for concurrent use.
type WorkspaceRepository struct {
	docs         map[string]*collab.Document
	historyLimit int
	mu           sync.RWMutex
}

// NewWorkspaceRepository creates a repository holding only the main workspace
func NewWorkspaceRepository(historyLimit int) *WorkspaceRepository {
	return &WorkspaceRepository{
		docs: map[string]*collab.Document{
			domain.MainWorkspaceID: collab.NewDocument(domain.MainWorkspaceID, domain.MainWorkspaceName, historyLimit),
		},
		historyLimit: historyLimit,
	}
}

// GetOrCreate returns the document for id, creating it on first use.
// Repeated calls for a live id return the same instance.
func (r *WorkspaceRepository) GetOrCreate(id string) *collab.Document {
	r.mu.RLock()
	doc, ok := r.docs[id]
	r.mu.RUnlock()
	if ok {
		return doc
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if doc, ok := r.docs[id]; ok {
		return doc
	}
	doc = collab.NewDocument(id, domain.DefaultWorkspaceName, r.historyLimit)
	r.docs[id] = doc
	return doc
}

// GetByID returns the document for id
func (r *WorkspaceRepository) GetByID(id string) (*collab.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	return doc, nil
}

// Exists reports whether id is a live workspace
func (r *WorkspaceRepository) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.docs[id]
	return ok
}

// Create adds a workspace, optionally seeded from template
func (r *WorkspaceRepository) Create(id, name string, template *domain.Snapshot) (*collab.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; ok {
		return nil, domain.ErrWorkspaceExists
	}

	var doc *collab.Document
	if template != nil {
		doc = collab.NewDocumentFrom(id, name, *template, r.historyLimit)
	} else {
		doc = collab.NewDocument(id, name, r.historyLimit)
	}
	r.docs[id] = doc
	return doc, nil
}

// Delete removes a workspace. The main workspace is never removed.
func (r *WorkspaceRepository) Delete(id string) error {
	if id == domain.MainWorkspaceID {
		return domain.ErrRootWorkspace
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return domain.ErrWorkspaceNotFound
	}
	delete(r.docs, id)
	return nil
}

// List returns every workspace sorted by id
func (r *WorkspaceRepository) List() []domain.WorkspaceSummary {
	r.mu.RLock()
	docs := make([]*collab.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		docs = append(docs, doc)
	}
	r.mu.RUnlock()

	summaries := make([]domain.WorkspaceSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, domain.WorkspaceSummary{ID: doc.ID(), Name: doc.Name()})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries
}

// Count returns the number of live workspaces
func (r *WorkspaceRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
