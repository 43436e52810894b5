package store

import (
	"context"

	"github.com/MKhiriev/go-calendar-sync/models"
	"github.com/Masterminds/squirrel"
)

// psql is the shared statement builder. Dollar placeholders are understood by
// both supported engines: pgx natively, go-sqlite3 as sequentially numbered
// parameters.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// buildCreateUserQuery builds the INSERT for a new user account.
// The database fills user_id and created_at; RETURNING hands them back.
func buildCreateUserQuery(ctx context.Context, user models.User) (string, []any, error) {
	return psql.Insert("users").
		Columns("login", "password_hash", "name").
		Values(user.Login, user.PasswordHash, user.Name).
		Suffix("RETURNING user_id, login, password_hash, name, created_at").
		ToSql()
}

// buildFindUserByLoginQuery builds the SELECT of a single user by login.
func buildFindUserByLoginQuery(ctx context.Context, login string) (string, []any, error) {
	return psql.Select("user_id", "login", "password_hash", "name", "created_at").
		From("users").
		Where(squirrel.Eq{"login": login}).
		ToSql()
}

// buildOpenWindowQuery builds the INSERT recording that a user opened a
// calendar window. A repeated open trips the UNIQUE(user_id, window_number)
// constraint instead of silently inserting a second row.
func buildOpenWindowQuery(ctx context.Context, userID int64, windowNumber int) (string, []any, error) {
	return psql.Insert("opened_windows").
		Columns("user_id", "window_number").
		Values(userID, windowNumber).
		Suffix("RETURNING user_id, window_number, opened_at").
		ToSql()
}

// buildGetOpenedWindowsQuery builds the SELECT of all windows a user has
// opened, ordered by window number so responses are stable.
func buildGetOpenedWindowsQuery(ctx context.Context, userID int64) (string, []any, error) {
	return psql.Select("user_id", "window_number", "opened_at").
		From("opened_windows").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("window_number ASC").
		ToSql()
}
