package memory

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"ballotbox/contexts/election-core/voting-session/domain/entities"
	domainerrors "ballotbox/contexts/election-core/voting-session/domain/errors"
	"ballotbox/contexts/election-core/voting-session/ports"

	"github.com/google/uuid"
)

var errOutboxRowNotFound = errors.New("outbox row not found")

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory adapter implementing the session repository, outbox,
// clock, and ID generator ports. Saves are serialized under one mutex so an
// aggregate write and its outbox rows commit together; sessions are cloned on
// the way in and out so callers never share aggregate state with the store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entities.Session
	outbox   []outboxRecord
}

func NewStore(seed []entities.Session) *Store {
	sessions := make(map[string]entities.Session, len(seed))
	for _, session := range seed {
		sessions[session.SessionID] = session.Clone()
	}
	return &Store{sessions: sessions}
}

func (s *Store) GetSession(_ context.Context, sessionID string) (entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[strings.TrimSpace(sessionID)]
	if !ok {
		return entities.Session{}, domainerrors.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *Store) SaveSession(_ context.Context, session entities.Session, events []ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]outboxRecord, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		outboxID := event.EventID
		if outboxID == "" {
			outboxID = uuid.NewString()
		}
		createdAt := event.OccurredAt.UTC()
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		rows = append(rows, outboxRecord{
			message: ports.OutboxMessage{
				OutboxID:  outboxID,
				EventType: event.EventType,
				Payload:   payload,
				Status:    "pending",
				CreatedAt: createdAt,
			},
		})
	}

	s.sessions[session.SessionID] = session.Clone()
	s.outbox = append(s.outbox, rows...)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID != outboxID {
			continue
		}
		at := publishedAt.UTC()
		s.outbox[i].published = true
		s.outbox[i].message.Status = "published"
		s.outbox[i].message.PublishedAt = &at
		return nil
	}
	return errOutboxRowNotFound
}

// OutboxEvents decodes every appended envelope in append order. Test helper.
func (s *Store) OutboxEvents() []ports.EventEnvelope {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]ports.EventEnvelope, 0, len(s.outbox))
	for _, row := range s.outbox {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.message.Payload, &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
