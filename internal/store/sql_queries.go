package store

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"whisp/models"
)

const whispsTable = "whisps"

// whispColumns is the canonical column order for every whisp query.
// Scan destinations in scanWhisp must match this order exactly.
var whispColumns = []string{
	"id",
	"encrypted_payload",
	"is_file",
	"password_hash",
	"created_at",
	"expires_at",
	"max_access",
	"access_count",
}

// psql builds queries with $N placeholders. The pgx driver requires them and
// SQLite accepts them, so one builder serves both engines.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func buildInsertWhispQuery(w models.Whisp) (string, []any, error) {
	return psql.Insert(whispsTable).
		Columns(whispColumns...).
		Values(
			w.ID,
			w.EncryptedPayload,
			w.IsFile,
			nullablePasswordHash(w.PasswordHash),
			w.CreatedAt,
			w.ExpiresAt,
			w.MaxAccess,
			w.AccessCount,
		).
		ToSql()
}

func buildGetWhispQuery(id string) (string, []any, error) {
	return psql.Select(whispColumns...).
		From(whispsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

// buildClaimWhispQuery produces the single-statement consume: delete the row
// only if it is still unexpired, returning its previous contents. Racing
// claims serialize on the row; the loser deletes nothing and scans no rows.
func buildClaimWhispQuery(id string, now time.Time) (string, []any, error) {
	return psql.Delete(whispsTable).
		Where(sq.Eq{"id": id}).
		Where(sq.Gt{"expires_at": now}).
		Suffix("RETURNING " + strings.Join(whispColumns, ", ")).
		ToSql()
}

func buildDeleteWhispQuery(id string) (string, []any, error) {
	return psql.Delete(whispsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildWhispExistsQuery(id string) (string, []any, error) {
	return psql.Select("1").
		From(whispsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildFindExpiredQuery(now time.Time) (string, []any, error) {
	return psql.Select(whispColumns...).
		From(whispsTable).
		Where(sq.LtOrEq{"expires_at": now}).
		OrderBy("expires_at ASC").
		ToSql()
}

// nullablePasswordHash stores the absence of a password as NULL rather than
// an empty string, matching the schema's nullable column.
func nullablePasswordHash(hash string) any {
	if hash == "" {
		return nil
	}
	return hash
}
