// Package session is the single authority for "who is logged in": it owns
// the in-memory identity, persists token and identity to the configured
// state medium, and keeps concurrent client instances consistent when the
// medium is shared.
//
// The in-memory identity is the source of truth for the current process;
// the medium is only consulted at bootstrap and in response to explicit
// cross-instance events. Divergence between instances is resolved by
// reload-or-redirect through a SessionReactor, never by patching individual
// fields.
package session
