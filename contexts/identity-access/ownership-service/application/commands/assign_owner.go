package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "ballotbox/contexts/identity-access/ownership-service/application"
	"ballotbox/contexts/identity-access/ownership-service/domain/entities"
	domainerrors "ballotbox/contexts/identity-access/ownership-service/domain/errors"
	"ballotbox/contexts/identity-access/ownership-service/ports"
)

// OwnershipUseCase coordinates owner assignment and transfer.
type OwnershipUseCase struct {
	Owners    ports.OwnerRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// AssignOwnerCommand records the first owner of a resource.
type AssignOwnerCommand struct {
	ResourceID string
	OwnerID    string
}

func (uc OwnershipUseCase) AssignOwner(ctx context.Context, cmd AssignOwnerCommand) (entities.OwnerRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	resourceID := strings.TrimSpace(cmd.ResourceID)
	ownerID := strings.TrimSpace(cmd.OwnerID)
	if resourceID == "" {
		return entities.OwnerRecord{}, domainerrors.ErrInvalidResourceID
	}
	if ownerID == "" {
		return entities.OwnerRecord{}, domainerrors.ErrInvalidOwnerID
	}

	if _, err := uc.Owners.GetOwner(ctx, resourceID); err == nil {
		return entities.OwnerRecord{}, domainerrors.ErrOwnerAlreadyAssigned
	} else if !errors.Is(err, domainerrors.ErrOwnerNotFound) {
		return entities.OwnerRecord{}, err
	}

	now := uc.Clock.Now()
	record := entities.OwnerRecord{
		ResourceID: resourceID,
		OwnerID:    ownerID,
		AssignedAt: now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	if err := uc.Owners.SaveOwner(ctx, record); err != nil {
		return entities.OwnerRecord{}, err
	}

	if err := uc.publishChange(ctx, "ownership.assigned", resourceID, "", ownerID); err != nil {
		return entities.OwnerRecord{}, err
	}
	logger.Info("resource owner assigned",
		"event", "ownership_assigned",
		"module", "identity-access/ownership-service",
		"layer", "application",
		"resource_id", resourceID,
		"owner_id", ownerID,
	)
	return record, nil
}

func (uc OwnershipUseCase) publishChange(
	ctx context.Context,
	eventType string,
	resourceID string,
	previousOwner string,
	newOwner string,
) error {
	if uc.Publisher == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return uc.Publisher.PublishOwnershipChanged(ctx, ports.OwnershipChangedEvent{
		EventID:       eventID,
		EventType:     eventType,
		ResourceID:    resourceID,
		PreviousOwner: previousOwner,
		NewOwner:      newOwner,
		OccurredAt:    uc.Clock.Now().UTC(),
	})
}
