// Package governanceaccounting implements governance accounting for project
// royalty tokens inside the governance context.
//
// The module owns token-weighted voting on proposals, quorum tallies, proposal
// eligibility, and the dynamic offer price of project tokens. Business rules
// live in domain/services as pure functions; persistence, the token oracle and
// price sessions sit behind ports so they can be swapped for in-memory
// adapters in tests.
package governanceaccounting
