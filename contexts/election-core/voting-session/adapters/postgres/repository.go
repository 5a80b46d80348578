package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ballotbox/contexts/election-core/voting-session/domain/entities"
	domainerrors "ballotbox/contexts/election-core/voting-session/domain/errors"
	"ballotbox/contexts/election-core/voting-session/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

type sessionModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	Status            int       `gorm:"column:status"`
	WinningProposalID int       `gorm:"column:winning_proposal_id"`
	IsTie             bool      `gorm:"column:is_tie"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (sessionModel) TableName() string { return "voting_sessions" }

type voterModel struct {
	SessionID       string `gorm:"column:session_id;primaryKey"`
	VoterID         string `gorm:"column:voter_id;primaryKey"`
	Position        int    `gorm:"column:position"`
	IsRegistered    bool   `gorm:"column:is_registered"`
	HasVoted        bool   `gorm:"column:has_voted"`
	VotedProposalID int    `gorm:"column:voted_proposal_id"`
}

func (voterModel) TableName() string { return "session_voters" }

type proposalModel struct {
	SessionID   string `gorm:"column:session_id;primaryKey"`
	ProposalID  int    `gorm:"column:proposal_id;primaryKey"`
	Description string `gorm:"column:description"`
	VoteCount   int    `gorm:"column:vote_count"`
}

func (proposalModel) TableName() string { return "session_proposals" }

type outboxModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	Seq         int        `gorm:"column:seq"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload;type:jsonb"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "session_outbox" }

// SaveSession upserts the aggregate's rows and appends the outbox rows in a
// single transaction, so the serialized call either fully commits or leaves
// the stored state untouched.
func (r *Repository) SaveSession(ctx context.Context, session entities.Session, events []ports.EventEnvelope) error {
	now := session.UpdatedAt
	rows, err := outboxRowsFromEvents(events, now)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header := sessionModel{
			ID:                session.SessionID,
			Status:            int(session.Status),
			WinningProposalID: session.WinningProposalID,
			IsTie:             session.IsTie,
			CreatedAt:         session.CreatedAt,
			UpdatedAt:         session.UpdatedAt,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":              header.Status,
				"winning_proposal_id": header.WinningProposalID,
				"is_tie":              header.IsTie,
				"updated_at":          header.UpdatedAt,
			}),
		}).Create(&header).Error; err != nil {
			return err
		}

		// Voters never leave the electorate, so an upsert is enough.
		voters := voterRowsFromSession(session)
		if len(voters) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "session_id"}, {Name: "voter_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"position", "is_registered", "has_voted", "voted_proposal_id"}),
			}).Create(&voters).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrAlreadyRegistered
				}
				return err
			}
		}

		proposals := proposalRowsFromSession(session)
		if len(proposals) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "session_id"}, {Name: "proposal_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"description", "vote_count"}),
			}).Create(&proposals).Error; err != nil {
				return err
			}
		}
		// A reset empties the proposal list; drop rows past the current length.
		if err := tx.Where("session_id = ? AND proposal_id >= ?", session.SessionID, len(session.Proposals)).
			Delete(&proposalModel{}).Error; err != nil {
			return err
		}

		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyRegistered) {
			return err
		}
		return r.logError("session_repo_save_failed", err, "session_id", session.SessionID)
	}
	return nil
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (entities.Session, error) {
	sessionID = strings.TrimSpace(sessionID)

	var header sessionModel
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&header).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Session{}, domainerrors.ErrSessionNotFound
		}
		return entities.Session{}, r.logError("session_repo_get_failed", err, "session_id", sessionID)
	}

	var voters []voterModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&voters).Error; err != nil {
		return entities.Session{}, r.logError("session_repo_list_voters_failed", err, "session_id", sessionID)
	}

	var proposals []proposalModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("proposal_id ASC").
		Find(&proposals).Error; err != nil {
		return entities.Session{}, r.logError("session_repo_list_proposals_failed", err, "session_id", sessionID)
	}

	session := entities.Session{
		SessionID:         header.ID,
		Status:            entities.WorkflowStatus(header.Status),
		Voters:            make(map[string]entities.Voter, len(voters)),
		WinningProposalID: header.WinningProposalID,
		IsTie:             header.IsTie,
		CreatedAt:         header.CreatedAt,
		UpdatedAt:         header.UpdatedAt,
	}
	for _, row := range voters {
		session.Voters[row.VoterID] = entities.Voter{
			IsRegistered:    row.IsRegistered,
			HasVoted:        row.HasVoted,
			VotedProposalID: row.VotedProposalID,
		}
		session.VoterOrder = append(session.VoterOrder, row.VoterID)
	}
	for _, row := range proposals {
		session.Proposals = append(session.Proposals, entities.Proposal{
			Description: row.Description,
			VoteCount:   row.VoteCount,
		})
	}
	return session, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC, seq ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("session_repo_list_outbox_failed", err)
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:    row.ID,
			EventType:   row.EventType,
			Payload:     row.Payload,
			Status:      row.Status,
			CreatedAt:   row.CreatedAt,
			PublishedAt: row.PublishedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	at := publishedAt.UTC()
	err := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &at,
		}).Error
	if err != nil {
		return r.logError("session_repo_mark_outbox_failed", err, "outbox_id", outboxID)
	}
	return nil
}

// outboxRowsFromEvents keeps the envelope slice order: rows written in one
// transaction share a created_at, and seq disambiguates them for the relay.
func outboxRowsFromEvents(events []ports.EventEnvelope, fallbackCreatedAt time.Time) ([]outboxModel, error) {
	rows := make([]outboxModel, 0, len(events))
	for seq, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}
		createdAt := event.OccurredAt.UTC()
		if createdAt.IsZero() {
			createdAt = fallbackCreatedAt.UTC()
		}
		rows = append(rows, outboxModel{
			ID:        event.EventID,
			Seq:       seq,
			EventType: event.EventType,
			Payload:   payload,
			Status:    outboxStatusPending,
			CreatedAt: createdAt,
		})
	}
	return rows, nil
}

func voterRowsFromSession(session entities.Session) []voterModel {
	rows := make([]voterModel, 0, len(session.VoterOrder))
	for position, identity := range session.VoterOrder {
		voter := session.Voters[identity]
		rows = append(rows, voterModel{
			SessionID:       session.SessionID,
			VoterID:         identity,
			Position:        position,
			IsRegistered:    voter.IsRegistered,
			HasVoted:        voter.HasVoted,
			VotedProposalID: voter.VotedProposalID,
		})
	}
	return rows
}

func proposalRowsFromSession(session entities.Session) []proposalModel {
	rows := make([]proposalModel, 0, len(session.Proposals))
	for proposalID, proposal := range session.Proposals {
		rows = append(rows, proposalModel{
			SessionID:   session.SessionID,
			ProposalID:  proposalID,
			Description: proposal.Description,
			VoteCount:   proposal.VoteCount,
		})
	}
	return rows
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (r *Repository) logError(event string, err error, args ...any) error {
	attrs := append([]any{
		"event", event,
		"module", "election-core/voting-session",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("session repository operation failed", attrs...)
	return err
}
