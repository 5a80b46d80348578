package queries

import (
	"context"
	"strings"

	"ballotbox/contexts/identity-access/ownership-service/domain/entities"
	"ballotbox/contexts/identity-access/ownership-service/ports"
)

type OwnershipQueries struct {
	Owners ports.OwnerRepository
}

func (uc OwnershipQueries) GetOwner(ctx context.Context, resourceID string) (entities.OwnerRecord, error) {
	return uc.Owners.GetOwner(ctx, strings.TrimSpace(resourceID))
}
