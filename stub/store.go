package stub

import (
	"sort"
	"sync"
	"time"

	"github.com/papercomputeco/prepdeck/pkg/client"
)

// Store is the in-memory backing state for the stub server.
type Store struct {
	mu sync.RWMutex

	sessions       map[int64]client.SessionDetail
	knowledgeBases map[int64]client.KnowledgeBase

	nextSessionID  int64
	nextKBID       int64
	nextDocumentID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		sessions:       make(map[int64]client.SessionDetail),
		knowledgeBases: make(map[int64]client.KnowledgeBase),
		nextSessionID:  1,
		nextKBID:       1,
		nextDocumentID: 1,
	}
}

// AddSession stores a session detail, assigning it an id.
func (s *Store) AddSession(detail client.SessionDetail) client.SessionDetail {
	s.mu.Lock()
	defer s.mu.Unlock()

	detail.ID = s.nextSessionID
	s.nextSessionID++
	s.sessions[detail.ID] = detail
	return detail
}

// ListSessions returns all sessions, newest first.
func (s *Store) ListSessions() []client.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]client.Session, 0, len(s.sessions))
	for _, detail := range s.sessions {
		sessions = append(sessions, detail.Session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions
}

// GetSession returns a session with its transcript.
func (s *Store) GetSession(id int64) (client.SessionDetail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	detail, ok := s.sessions[id]
	return detail, ok
}

// DeleteSession removes a session. Returns false if the id is unknown.
func (s *Store) DeleteSession(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Stats aggregates sessions into a per-day series, oldest day first.
func (s *Store) Stats() []client.StatsDay {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type bucket struct {
		count int
		total float64
	}
	days := make(map[string]*bucket)
	for _, detail := range s.sessions {
		date := detail.StartedAt.UTC().Format(time.DateOnly)
		b, ok := days[date]
		if !ok {
			b = &bucket{}
			days[date] = b
		}
		b.count++
		b.total += detail.Score
	}

	series := make([]client.StatsDay, 0, len(days))
	for date, b := range days {
		series = append(series, client.StatsDay{
			Date:         date,
			Sessions:     b.count,
			AverageScore: b.total / float64(b.count),
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}

// AddKnowledgeBase creates a knowledge base, assigning it an id.
func (s *Store) AddKnowledgeBase(name, description string) client.KnowledgeBase {
	s.mu.Lock()
	defer s.mu.Unlock()

	kb := client.KnowledgeBase{
		ID:          s.nextKBID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextKBID++
	s.knowledgeBases[kb.ID] = kb
	return kb
}

// ListKnowledgeBases returns all knowledge bases, oldest first.
func (s *Store) ListKnowledgeBases() []client.KnowledgeBase {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kbs := make([]client.KnowledgeBase, 0, len(s.knowledgeBases))
	for _, kb := range s.knowledgeBases {
		kbs = append(kbs, kb)
	}
	sort.Slice(kbs, func(i, j int) bool {
		return kbs[i].ID < kbs[j].ID
	})
	return kbs
}

// GetKnowledgeBase returns a knowledge base by id.
func (s *Store) GetKnowledgeBase(id int64) (client.KnowledgeBase, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kb, ok := s.knowledgeBases[id]
	return kb, ok
}

// DeleteKnowledgeBase removes a knowledge base. Returns false if the id
// is unknown.
func (s *Store) DeleteKnowledgeBase(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.knowledgeBases[id]; !ok {
		return false
	}
	delete(s.knowledgeBases, id)
	return true
}

// AddDocument records a document upload against a knowledge base and
// returns the assigned document id. Returns false if the knowledge base
// is unknown.
func (s *Store) AddDocument(kbID int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kb, ok := s.knowledgeBases[kbID]
	if !ok {
		return 0, false
	}
	docID := s.nextDocumentID
	s.nextDocumentID++
	kb.DocumentCount++
	s.knowledgeBases[kbID] = kb
	return docID, true
}
