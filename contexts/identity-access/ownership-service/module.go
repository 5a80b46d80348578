package ownershipservice

import (
	"log/slog"

	eventsadapter "ballotbox/contexts/identity-access/ownership-service/adapters/events"
	httpadapter "ballotbox/contexts/identity-access/ownership-service/adapters/http"
	"ballotbox/contexts/identity-access/ownership-service/adapters/memory"
	postgresadapter "ballotbox/contexts/identity-access/ownership-service/adapters/postgres"
	"ballotbox/contexts/identity-access/ownership-service/application/commands"
	"ballotbox/contexts/identity-access/ownership-service/application/queries"
	"ballotbox/contexts/identity-access/ownership-service/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Ownership commands.OwnershipUseCase
	Queries   queries.OwnershipQueries
	Store     *memory.Store
}

type Dependencies struct {
	Owners    ports.OwnerRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	ownership := commands.OwnershipUseCase{
		Owners:    deps.Owners,
		Publisher: deps.Publisher,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	ownerQueries := queries.OwnershipQueries{Owners: deps.Owners}
	return Module{
		Handler: httpadapter.Handler{
			Ownership: ownership,
			Queries:   ownerQueries,
			Logger:    deps.Logger,
		},
		Ownership: ownership,
		Queries:   ownerQueries,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Owners:    store,
		Publisher: eventsadapter.NewPublisher(logger),
		Clock:     postgresadapter.SystemClock{},
		IDGen:     postgresadapter.UUIDGenerator{},
		Logger:    logger,
	})
	module.Store = store
	return module
}
