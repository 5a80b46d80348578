package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ballotbox/contexts/identity-access/ownership-service/domain/entities"
	domainerrors "ballotbox/contexts/identity-access/ownership-service/domain/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

type ownerModel struct {
	ResourceID string    `gorm:"column:resource_id;primaryKey"`
	OwnerID    string    `gorm:"column:owner_id"`
	AssignedAt time.Time `gorm:"column:assigned_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (ownerModel) TableName() string { return "resource_owners" }

func (r *Repository) SaveOwner(ctx context.Context, record entities.OwnerRecord) error {
	row := ownerModel{
		ResourceID: strings.TrimSpace(record.ResourceID),
		OwnerID:    strings.TrimSpace(record.OwnerID),
		AssignedAt: record.AssignedAt.UTC(),
		UpdatedAt:  record.UpdatedAt.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "resource_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"owner_id":   row.OwnerID,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error
	if err != nil {
		r.logger.Error("owner save failed",
			"event", "ownership_repo_save_failed",
			"module", "identity-access/ownership-service",
			"layer", "adapter",
			"resource_id", row.ResourceID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (r *Repository) GetOwner(ctx context.Context, resourceID string) (entities.OwnerRecord, error) {
	var row ownerModel
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", strings.TrimSpace(resourceID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.OwnerRecord{}, domainerrors.ErrOwnerNotFound
		}
		r.logger.Error("owner lookup failed",
			"event", "ownership_repo_get_failed",
			"module", "identity-access/ownership-service",
			"layer", "adapter",
			"resource_id", strings.TrimSpace(resourceID),
			"error", err.Error(),
		)
		return entities.OwnerRecord{}, err
	}
	return entities.OwnerRecord{
		ResourceID: row.ResourceID,
		OwnerID:    row.OwnerID,
		AssignedAt: row.AssignedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}
