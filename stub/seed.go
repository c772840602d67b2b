package stub

import (
	"time"

	"github.com/papercomputeco/prepdeck/pkg/client"
)

// Seed populates the store with demo sessions and knowledge bases so a
// fresh install has something to browse.
func Seed(store *Store) {
	now := time.Now().UTC()
	day := func(daysAgo int, hour int) time.Time {
		return now.AddDate(0, 0, -daysAgo).Truncate(24 * time.Hour).Add(time.Duration(hour) * time.Hour)
	}

	seedSessions := []client.SessionDetail{
		{
			Session: client.Session{
				Topic:         "Goroutines and channels",
				Position:      "Backend Engineer",
				StartedAt:     day(6, 10),
				QuestionCount: 4,
				Score:         6.5,
			},
			Turns: []client.Turn{
				{Role: "interviewer", Content: "What happens when you send on a nil channel?", AskedAt: day(6, 10)},
				{Role: "candidate", Content: "The send blocks forever. A nil channel is never ready, so select cases on it are effectively disabled.", AskedAt: day(6, 10).Add(2 * time.Minute)},
				{Role: "interviewer", Content: "How would you fan out work to a bounded pool of goroutines?", AskedAt: day(6, 10).Add(5 * time.Minute)},
				{Role: "candidate", Content: "Start N workers reading from a shared jobs channel, close it when producers finish, and collect results on a second channel with a WaitGroup guarding the close.", AskedAt: day(6, 10).Add(8 * time.Minute)},
			},
		},
		{
			Session: client.Session{
				Topic:         "Database indexing",
				Position:      "Backend Engineer",
				StartedAt:     day(4, 15),
				QuestionCount: 3,
				Score:         8.0,
			},
			Turns: []client.Turn{
				{Role: "interviewer", Content: "When does a composite index help a query and when does it not?", AskedAt: day(4, 15)},
				{Role: "candidate", Content: "It helps when the query filters on a leftmost prefix of the indexed columns. Filtering only on a later column cannot use the index'd ordering.", AskedAt: day(4, 15).Add(3 * time.Minute)},
				{Role: "interviewer", Content: "What is a covering index?", AskedAt: day(4, 15).Add(6 * time.Minute)},
			},
		},
		{
			Session: client.Session{
				Topic:         "System design: rate limiter",
				Position:      "Staff Engineer",
				StartedAt:     day(1, 9),
				QuestionCount: 5,
				Score:         7.2,
			},
			Turns: []client.Turn{
				{Role: "interviewer", Content: "Design a distributed rate limiter for a public API.", AskedAt: day(1, 9)},
				{Role: "candidate", Content: "I would start with a token bucket per API key in Redis, using a Lua script for atomic take-and-refill, and discuss the consistency trade-off of local buckets with periodic sync.", AskedAt: day(1, 9).Add(4 * time.Minute)},
			},
		},
	}
	for _, detail := range seedSessions {
		store.AddSession(detail)
	}

	seedKBs := []struct {
		name, description string
		documents         int
	}{
		{"Go fundamentals", "Notes on goroutines, channels, the memory model, and the runtime", 3},
		{"System design", "Worked designs for caches, queues, and rate limiters", 2},
	}
	for _, kb := range seedKBs {
		created := store.AddKnowledgeBase(kb.name, kb.description)
		for i := 0; i < kb.documents; i++ {
			store.AddDocument(created.ID)
		}
	}
}
