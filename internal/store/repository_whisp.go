package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"whisp/internal/logger"
	"whisp/models"
)

// whispRepository is the SQL-backed implementation of [WhispRepository].
// It executes all record operations against the "whisps" table using the
// embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields.
type whispRepository struct {
	*DB
	logger *logger.Logger
}

// NewWhispRepository constructs a [WhispRepository] backed by the provided
// database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewWhispRepository(db *DB, logger *logger.Logger) WhispRepository {
	return &whispRepository{
		DB:     db,
		logger: logger,
	}
}

// Create persists a new whisp record.
//
// Returns [ErrWhispAlreadyExists] when the primary key collides with an
// existing row, as classified by the driver-specific error classifier.
func (r *whispRepository) Create(ctx context.Context, whisp models.Whisp) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertWhispQuery(whisp)
	if err != nil {
		log.Err(err).
			Str("func", "whispRepository.Create").
			Str("whisp_id", whisp.ID).
			Msg("failed to build insert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		if r.errorClassificator.Classify(err) == Conflict {
			log.Err(err).
				Str("func", "whispRepository.Create").
				Str("whisp_id", whisp.ID).
				Msg("whisp id collision on insert")
			return fmt.Errorf("%w: %w", ErrWhispAlreadyExists, err)
		}

		log.Err(err).
			Str("func", "whispRepository.Create").
			Str("whisp_id", whisp.ID).
			Msg("failed to insert whisp")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Get retrieves a whisp by id without mutating it.
//
// Expiry is deliberately not filtered here: the lifecycle manager decides
// how an expired-but-unswept row must be presented.
func (r *whispRepository) Get(ctx context.Context, id string) (models.Whisp, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetWhispQuery(id)
	if err != nil {
		log.Err(err).Str("func", "whispRepository.Get").Str("whisp_id", id).Msg("failed to build select query")
		return models.Whisp{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	whisp, err := scanWhisp(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Whisp{}, ErrWhispNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "whispRepository.Get").Str("whisp_id", id).Msg("failed to scan whisp row")
		return models.Whisp{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return whisp, nil
}

// ClaimAndDelete atomically removes the whisp and returns its previous state,
// provided the record exists and expires strictly after now.
//
// The operation is a single DELETE ... RETURNING statement, so concurrent
// claims on the same id serialize inside the storage engine: exactly one
// caller receives the row, every other caller receives [ErrWhispNotFound].
func (r *whispRepository) ClaimAndDelete(ctx context.Context, id string, now time.Time) (models.Whisp, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildClaimWhispQuery(id, now)
	if err != nil {
		log.Err(err).Str("func", "whispRepository.ClaimAndDelete").Str("whisp_id", id).Msg("failed to build claim query")
		return models.Whisp{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	whisp, err := scanWhisp(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		// Missing, expired, or lost the race — indistinguishable on purpose.
		return models.Whisp{}, ErrWhispNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "whispRepository.ClaimAndDelete").Str("whisp_id", id).Msg("failed to claim whisp")
		return models.Whisp{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return whisp, nil
}

// Delete removes a whisp record. Deleting a nonexistent id is a no-op.
func (r *whispRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteWhispQuery(id)
	if err != nil {
		log.Err(err).Str("func", "whispRepository.Delete").Str("whisp_id", id).Msg("failed to build delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "whispRepository.Delete").Str("whisp_id", id).Msg("failed to delete whisp")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Exists reports whether a record with the given id is present.
func (r *whispRepository) Exists(ctx context.Context, id string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildWhispExistsQuery(id)
	if err != nil {
		log.Err(err).Str("func", "whispRepository.Exists").Str("whisp_id", id).Msg("failed to build exists query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var one int
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Err(err).Str("func", "whispRepository.Exists").Str("whisp_id", id).Msg("failed to query whisp existence")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return true, nil
}

// FindExpired returns every whisp whose expiry is at or before now, oldest
// first. Rows are not deleted here; the sweeper removes blobs first and then
// the records.
func (r *whispRepository) FindExpired(ctx context.Context, now time.Time) ([]models.Whisp, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindExpiredQuery(now)
	if err != nil {
		log.Err(err).Str("func", "whispRepository.FindExpired").Msg("failed to build expired query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "whispRepository.FindExpired").Msg("failed to execute query for expired whisps")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	expired := make([]models.Whisp, 0, 16)

	for rows.Next() {
		whisp, scanErr := scanWhisp(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "whispRepository.FindExpired").Msg("failed to scan expired whisp row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		expired = append(expired, whisp)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "whispRepository.FindExpired").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return expired, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanWhisp.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanWhisp reads one row in whispColumns order into a models.Whisp.
func scanWhisp(row rowScanner) (models.Whisp, error) {
	var whisp models.Whisp
	var passwordHash sql.NullString

	err := row.Scan(
		&whisp.ID,
		&whisp.EncryptedPayload,
		&whisp.IsFile,
		&passwordHash,
		&whisp.CreatedAt,
		&whisp.ExpiresAt,
		&whisp.MaxAccess,
		&whisp.AccessCount,
	)
	if err != nil {
		return models.Whisp{}, err
	}

	if passwordHash.Valid {
		whisp.PasswordHash = passwordHash.String
	}

	return whisp, nil
}
