package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"zerobin/internal/item"
)

const itemColumns = "id, content, filename, mimetype, digest, label, destruct, private, is_url, sunset, timestamp"

type SqliteDB struct {
	Db *sql.DB
}

func DatabaseSetup(ctx context.Context, databaseDir string, migrations fs.FS) (SqliteDB, error) {
	var sqlitedb SqliteDB

	db, err := sql.Open("sqlite3", databaseDir+"/"+"zerobin.db")
	if err != nil {
		return sqlitedb, fmt.Errorf(`sql.Open("sqlite3", databaseDir + "zerobin.db"). %w`, err)
	}

	// sqlite allows a single writer; serializing through one connection
	// keeps concurrent handlers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return sqlitedb, fmt.Errorf("goose.SetDialect(). %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return sqlitedb, fmt.Errorf("goose.UpContext(). %w", err)
	}

	sqlitedb.Db = db

	return sqlitedb, nil
}

func (sq SqliteDB) NextID() (int64, error) {
	var id int64

	err := sq.Db.QueryRow("UPDATE item_seq SET value = value + 1 RETURNING value").Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("sq.Db.QueryRow(UPDATE item_seq).Scan %w", err)
	}

	return id, nil
}

func (sq SqliteDB) AddItem(it item.Item) error {
	_, err := sq.Db.Exec(
		"INSERT INTO items ("+itemColumns+") values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		it.ID, it.Content, it.Filename, it.Mimetype, it.Digest, it.Label,
		it.Destruct, it.Private, it.IsURL, nullUnix(it.Sunset), nullUnix(it.Timestamp),
	)
	if err != nil {
		return fmt.Errorf(`sq.Db.Exec("INSERT INTO items"). %w`, err)
	}

	return nil
}

func (sq SqliteDB) UpdateItem(it item.Item) error {
	res, err := sq.Db.Exec(
		`UPDATE items SET content = ?, filename = ?, mimetype = ?, digest = ?, label = ?,
			destruct = ?, private = ?, is_url = ?, sunset = ?, timestamp = ?
		WHERE id = ?`,
		it.Content, it.Filename, it.Mimetype, it.Digest, it.Label,
		it.Destruct, it.Private, it.IsURL, nullUnix(it.Sunset), nullUnix(it.Timestamp),
		it.ID,
	)
	if err != nil {
		return fmt.Errorf(`sq.Db.Exec("UPDATE items"). %w`, err)
	}

	return affectedOrNoRows(res)
}

func (sq SqliteDB) GetItemByDigest(digest string) (item.Item, error) {
	row := sq.Db.QueryRow("SELECT "+itemColumns+" FROM items WHERE digest = ?", digest)
	return scanItem(row)
}

func (sq SqliteDB) GetPublicItemByLabel(label string) (item.Item, error) {
	row := sq.Db.QueryRow("SELECT "+itemColumns+" FROM items WHERE label = ? AND private = false", label)
	return scanItem(row)
}

func (sq SqliteDB) DeleteItem(id int64) error {
	res, err := sq.Db.Exec("DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf(`sq.Db.Exec("DELETE FROM items WHERE id"). %w`, err)
	}

	return affectedOrNoRows(res)
}

func (sq SqliteDB) DeleteItemByDigest(digest string) error {
	res, err := sq.Db.Exec("DELETE FROM items WHERE digest = ?", digest)
	if err != nil {
		return fmt.Errorf(`sq.Db.Exec("DELETE FROM items WHERE digest"). %w`, err)
	}

	return affectedOrNoRows(res)
}

func (sq SqliteDB) SunsetItems(now time.Time) (int64, error) {
	res, err := sq.Db.Exec("DELETE FROM items WHERE sunset IS NOT NULL AND sunset <= ?", now.Unix())
	if err != nil {
		return 0, fmt.Errorf(`sq.Db.Exec("DELETE FROM items WHERE sunset"). %w`, err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("res.RowsAffected(). %w", err)
	}

	return count, nil
}

func (sq SqliteDB) Close() error {
	return sq.Db.Close()
}

func scanItem(row *sql.Row) (item.Item, error) {
	var it item.Item
	var sunset, timestamp sql.NullInt64

	err := row.Scan(&it.ID, &it.Content, &it.Filename, &it.Mimetype, &it.Digest, &it.Label,
		&it.Destruct, &it.Private, &it.IsURL, &sunset, &timestamp)
	if err != nil {
		return it, fmt.Errorf("row.Scan(item) %w", err)
	}

	if sunset.Valid {
		it.Sunset = time.Unix(sunset.Int64, 0).UTC()
	}
	if timestamp.Valid {
		it.Timestamp = time.Unix(timestamp.Int64, 0).UTC()
	}

	return it, nil
}

func affectedOrNoRows(res sql.Result) error {
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("res.RowsAffected(). %w", err)
	}
	if count == 0 {
		return fmt.Errorf("no matching item. %w", sql.ErrNoRows)
	}

	return nil
}

func nullUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
