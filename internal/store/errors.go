package store

import "errors"

// Sentinel errors returned by repository and blob-store methods to signal
// well-known failure conditions. Callers should use [errors.Is] to match
// against these values.
var (
	// ErrWhispAlreadyExists is returned when inserting a whisp whose id is
	// already present in the database. Ids are generated with high entropy,
	// so hitting this in practice means the generator misbehaved — but the
	// constraint is still checked and surfaced.
	ErrWhispAlreadyExists = errors.New("whisp already exists")

	// ErrWhispNotFound is returned when a lookup or atomic claim targets a
	// whisp that does not exist, has expired, or has already been consumed.
	// The three cases are deliberately indistinguishable at this level.
	ErrWhispNotFound = errors.New("whisp was not found")

	// ErrBlobNotFound is returned when opening a blob that is not present
	// in the blob store.
	ErrBlobNotFound = errors.New("whisp blob was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan whisp row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan whisp rows")
)
