package ownership

import (
	"context"
	"errors"

	ownershipcommands "ballotbox/contexts/identity-access/ownership-service/application/commands"
	ownershipqueries "ballotbox/contexts/identity-access/ownership-service/application/queries"
	ownershiperrors "ballotbox/contexts/identity-access/ownership-service/domain/errors"
)

// Registry adapts the ownership-service module to the session core's
// OwnershipRegistry port. The core treats a missing owner record as "no
// administrator", not as an infrastructure failure.
type Registry struct {
	Ownership ownershipcommands.OwnershipUseCase
	Queries   ownershipqueries.OwnershipQueries
}

func (r Registry) Owner(ctx context.Context, resourceID string) (string, error) {
	record, err := r.Queries.GetOwner(ctx, resourceID)
	if err != nil {
		if errors.Is(err, ownershiperrors.ErrOwnerNotFound) {
			return "", nil
		}
		return "", err
	}
	return record.OwnerID, nil
}

func (r Registry) AssignOwner(ctx context.Context, resourceID string, ownerID string) error {
	_, err := r.Ownership.AssignOwner(ctx, ownershipcommands.AssignOwnerCommand{
		ResourceID: resourceID,
		OwnerID:    ownerID,
	})
	return err
}
