package commands

import (
	"context"
	"strings"

	application "ballotbox/contexts/identity-access/ownership-service/application"
	"ballotbox/contexts/identity-access/ownership-service/domain/entities"
	domainerrors "ballotbox/contexts/identity-access/ownership-service/domain/errors"
)

// TransferOwnershipCommand moves a resource to a new owner. Only the current
// owner may transfer.
type TransferOwnershipCommand struct {
	ResourceID string
	CallerID   string
	NewOwnerID string
}

func (uc OwnershipUseCase) TransferOwnership(ctx context.Context, cmd TransferOwnershipCommand) (entities.OwnerRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	resourceID := strings.TrimSpace(cmd.ResourceID)
	callerID := strings.TrimSpace(cmd.CallerID)
	newOwnerID := strings.TrimSpace(cmd.NewOwnerID)
	if resourceID == "" {
		return entities.OwnerRecord{}, domainerrors.ErrInvalidResourceID
	}
	if newOwnerID == "" {
		return entities.OwnerRecord{}, domainerrors.ErrInvalidOwnerID
	}

	record, err := uc.Owners.GetOwner(ctx, resourceID)
	if err != nil {
		return entities.OwnerRecord{}, err
	}
	if callerID == "" || record.OwnerID != callerID {
		logger.Warn("ownership transfer rejected",
			"event", "ownership_transfer_rejected",
			"module", "identity-access/ownership-service",
			"layer", "application",
			"resource_id", resourceID,
			"caller_id", callerID,
		)
		return entities.OwnerRecord{}, domainerrors.ErrNotOwner
	}

	previousOwner := record.OwnerID
	record.OwnerID = newOwnerID
	record.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Owners.SaveOwner(ctx, record); err != nil {
		return entities.OwnerRecord{}, err
	}

	if err := uc.publishChange(ctx, "ownership.transferred", resourceID, previousOwner, newOwnerID); err != nil {
		return entities.OwnerRecord{}, err
	}
	logger.Info("resource ownership transferred",
		"event", "ownership_transferred",
		"module", "identity-access/ownership-service",
		"layer", "application",
		"resource_id", resourceID,
		"previous_owner", previousOwner,
		"new_owner", newOwnerID,
	)
	return record, nil
}
