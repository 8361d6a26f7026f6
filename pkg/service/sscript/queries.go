package sscript

import (
	"context"
	"database/sql"

	"github.com/questwright/scriptgraph/pkg/idwrap"
)

// DBTX is the slice of database/sql shared by *sql.DB and *sql.Tx, so
// every query runs unchanged inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scriptRow struct {
	ID           idwrap.IDWrap
	OwnerType    int64
	OwnerID      string
	Name         string
	Data         []byte
	CompressKind int64
	Encryption   int64
}

const getScriptSQL = `SELECT id, owner_type, owner_id, name, data, compress_kind, encryption
FROM script_definitions WHERE id = ?`

func getScript(ctx context.Context, db DBTX, id idwrap.IDWrap) (scriptRow, error) {
	var row scriptRow
	err := db.QueryRowContext(ctx, getScriptSQL, id).Scan(
		&row.ID, &row.OwnerType, &row.OwnerID, &row.Name,
		&row.Data, &row.CompressKind, &row.Encryption,
	)
	return row, err
}

const listScriptsByOwnerSQL = `SELECT id, owner_type, owner_id, name, data, compress_kind, encryption
FROM script_definitions WHERE owner_type = ? AND owner_id = ? ORDER BY id`

func listScriptsByOwner(ctx context.Context, db DBTX, ownerType int64, ownerID string) ([]scriptRow, error) {
	rows, err := db.QueryContext(ctx, listScriptsByOwnerSQL, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	return scanScriptRows(rows)
}

const listScriptsSQL = `SELECT id, owner_type, owner_id, name, data, compress_kind, encryption
FROM script_definitions ORDER BY id`

func listScripts(ctx context.Context, db DBTX) ([]scriptRow, error) {
	rows, err := db.QueryContext(ctx, listScriptsSQL)
	if err != nil {
		return nil, err
	}
	return scanScriptRows(rows)
}

func scanScriptRows(rows *sql.Rows) ([]scriptRow, error) {
	defer func() { _ = rows.Close() }()
	var out []scriptRow
	for rows.Next() {
		var row scriptRow
		if err := rows.Scan(
			&row.ID, &row.OwnerType, &row.OwnerID, &row.Name,
			&row.Data, &row.CompressKind, &row.Encryption,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const insertScriptSQL = `INSERT INTO script_definitions
(id, owner_type, owner_id, name, data, compress_kind, encryption)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func insertScript(ctx context.Context, db DBTX, row scriptRow) error {
	_, err := db.ExecContext(ctx, insertScriptSQL,
		row.ID, row.OwnerType, row.OwnerID, row.Name,
		row.Data, row.CompressKind, row.Encryption,
	)
	return err
}

const updateScriptSQL = `UPDATE script_definitions
SET owner_type = ?, owner_id = ?, name = ?, data = ?, compress_kind = ?, encryption = ?
WHERE id = ?`

func updateScript(ctx context.Context, db DBTX, row scriptRow) error {
	res, err := db.ExecContext(ctx, updateScriptSQL,
		row.OwnerType, row.OwnerID, row.Name,
		row.Data, row.CompressKind, row.Encryption, row.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const deleteScriptSQL = `DELETE FROM script_definitions WHERE id = ?`

func deleteScript(ctx context.Context, db DBTX, id idwrap.IDWrap) error {
	res, err := db.ExecContext(ctx, deleteScriptSQL, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
