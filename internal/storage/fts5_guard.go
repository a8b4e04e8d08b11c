//go:build !sqlite_fts5

package storage

// The schema creates an FTS5 virtual table, and mattn/go-sqlite3 only
// compiles the FTS5 extension in when the sqlite_fts5 build tag is set.
// Without the tag every Open fails at runtime with "no such module:
// fts5", so fail the build up front instead:
//
//	go build -tags sqlite_fts5 ./...
//	go test -tags sqlite_fts5 ./...
var _ = requireSQLiteFTS5BuildTag
