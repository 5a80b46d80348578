package httpadapter

import (
	"context"
	"log/slog"

	"ballotbox/contexts/identity-access/ownership-service/application/commands"
	"ballotbox/contexts/identity-access/ownership-service/application/queries"
	httptransport "ballotbox/contexts/identity-access/ownership-service/transport/http"
)

type Handler struct {
	Ownership commands.OwnershipUseCase
	Queries   queries.OwnershipQueries
	Logger    *slog.Logger
}

func (h Handler) GetOwnerHandler(ctx context.Context, resourceID string) (httptransport.OwnerResponse, error) {
	record, err := h.Queries.GetOwner(ctx, resourceID)
	if err != nil {
		return httptransport.OwnerResponse{}, err
	}
	return httptransport.OwnerResponse{
		ResourceID: record.ResourceID,
		OwnerID:    record.OwnerID,
	}, nil
}

func (h Handler) TransferOwnershipHandler(
	ctx context.Context,
	resourceID string,
	callerID string,
	req httptransport.TransferOwnershipRequest,
) (httptransport.OwnerResponse, error) {
	record, err := h.Ownership.TransferOwnership(ctx, commands.TransferOwnershipCommand{
		ResourceID: resourceID,
		CallerID:   callerID,
		NewOwnerID: req.NewOwnerID,
	})
	if err != nil {
		return httptransport.OwnerResponse{}, err
	}
	return httptransport.OwnerResponse{
		ResourceID: record.ResourceID,
		OwnerID:    record.OwnerID,
	}, nil
}
