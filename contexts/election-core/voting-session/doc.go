// Package votingsession implements the election workflow core inside the
// election-core context.
//
// The module owns the session aggregate (voter registry, ordered proposal
// list, six-phase workflow, tally result), gates every operation on caller
// identity and workflow phase, and records each committed mutation as an
// audit event in an outbox relayed to the event bus. Administrator identity
// is resolved through the identity-access ownership capability rather than
// stored here. Business rules live in the domain/application layers;
// infrastructure stays behind ports and adapters.
package votingsession
