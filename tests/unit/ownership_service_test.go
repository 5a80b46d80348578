package unit

import (
	"context"
	"errors"
	"testing"

	ownership "ballotbox/contexts/identity-access/ownership-service"
	"ballotbox/contexts/identity-access/ownership-service/application/commands"
	ownershiperrors "ballotbox/contexts/identity-access/ownership-service/domain/errors"
	httptransport "ballotbox/contexts/identity-access/ownership-service/transport/http"
)

func TestAssignOwnerOncePerResource(t *testing.T) {
	module := ownership.NewInMemoryModule(nil)
	ctx := context.Background()

	if _, err := module.Ownership.AssignOwner(ctx, commands.AssignOwnerCommand{
		ResourceID: "session-1",
		OwnerID:    "admin",
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	_, err := module.Ownership.AssignOwner(ctx, commands.AssignOwnerCommand{
		ResourceID: "session-1",
		OwnerID:    "someone-else",
	})
	if !errors.Is(err, ownershiperrors.ErrOwnerAlreadyAssigned) {
		t.Fatalf("expected already assigned, got %v", err)
	}

	record, err := module.Queries.GetOwner(ctx, "session-1")
	if err != nil {
		t.Fatalf("get owner: %v", err)
	}
	if record.OwnerID != "admin" {
		t.Fatalf("owner = %q, want admin", record.OwnerID)
	}
}

func TestTransferOwnershipRequiresCurrentOwner(t *testing.T) {
	module := ownership.NewInMemoryModule(nil)
	ctx := context.Background()

	if _, err := module.Ownership.AssignOwner(ctx, commands.AssignOwnerCommand{
		ResourceID: "session-1",
		OwnerID:    "admin",
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	_, err := module.Handler.TransferOwnershipHandler(ctx, "session-1", "intruder",
		httptransport.TransferOwnershipRequest{NewOwnerID: "successor"})
	if !errors.Is(err, ownershiperrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}

	resp, err := module.Handler.TransferOwnershipHandler(ctx, "session-1", "admin",
		httptransport.TransferOwnershipRequest{NewOwnerID: "successor"})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if resp.OwnerID != "successor" {
		t.Fatalf("owner after transfer = %q, want successor", resp.OwnerID)
	}
}

func TestGetOwnerUnknownResource(t *testing.T) {
	module := ownership.NewInMemoryModule(nil)
	_, err := module.Queries.GetOwner(context.Background(), "missing")
	if !errors.Is(err, ownershiperrors.ErrOwnerNotFound) {
		t.Fatalf("expected owner not found, got %v", err)
	}
}
