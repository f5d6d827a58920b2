// Package core holds the contacts manager's domain: persons, countries and
// the services that manage them, independent of HTTP and storage.
//
// # Services
//
// [PersonsService] adds, updates, deletes, searches, sorts and exports
// persons. [CountriesService] adds and lists countries and imports them in
// bulk from workbooks and CSV files, bounded by an [ImportLimiter].
//
// Both services talk to storage through [PersonsRepository] and
// [CountriesRepository]; the repository package provides Postgres and
// in-memory implementations.
//
// # Search and sort
//
// Searchable and sortable fields are dispatch tables keyed by field name
// ([SearchField], [SortField]). Unknown names are not errors: searching by
// one returns every person and sorting by one keeps the input order.
//
// # Errors
//
// Input problems wrap [ErrInvalidArgument], so callers can test with
// errors.Is. Field-level problems arrive as [ValidationErrors]. [MapError]
// turns any error into a [UserMessage] with a support code.
package core
