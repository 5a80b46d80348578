package votingsession

import (
	"log/slog"

	httpadapter "ballotbox/contexts/election-core/voting-session/adapters/http"
	"ballotbox/contexts/election-core/voting-session/adapters/memory"
	"ballotbox/contexts/election-core/voting-session/application/commands"
	"ballotbox/contexts/election-core/voting-session/application/queries"
	"ballotbox/contexts/election-core/voting-session/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Sessions  ports.SessionRepository
	Ownership ports.OwnershipRegistry
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	sessionUseCase := commands.SessionUseCase{
		Sessions:  deps.Sessions,
		Ownership: deps.Ownership,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	sessionQueries := queries.SessionQueries{
		Sessions: deps.Sessions,
	}
	return Module{
		Handler: httpadapter.Handler{
			Sessions: sessionUseCase,
			Queries:  sessionQueries,
			Logger:   deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module over the in-memory store. The caller
// supplies the ownership capability so admin checks resolve against the same
// registry the rest of the process uses.
func NewInMemoryModule(ownership ports.OwnershipRegistry, logger *slog.Logger) Module {
	store := memory.NewStore(nil)
	module := NewModule(Dependencies{
		Sessions:  store,
		Ownership: ownership,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
