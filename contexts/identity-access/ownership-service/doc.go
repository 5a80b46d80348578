// Package ownershipservice implements the ownership capability inside the
// identity-access context.
//
// It owns one record per resource naming its current owner, supports
// assignment at resource creation and owner-initiated transfer, and publishes
// ownership-change events. Other modules (the voting session core) consume it
// through a registry port to resolve their administrator role; they never
// store owner identities themselves.
package ownershipservice
