// Package contact implements contact management for a tenant's address
// book: CRUD, search, and the persistence side of the CSV import pipeline.
//
// The import flow runs the in-memory pipeline from internal/importer first,
// then re-checks every accepted candidate against the durable store with
// the same three-signal match (email, external_id, phone) before inserting.
// The two layers can disagree only on what they have seen, never on the
// matching rule itself.
//
// Repository implementations live in repository/postgres/.
package contact
