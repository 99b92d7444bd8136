// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package activity

import (
	"bufio"
	"context"
	"encoding/json"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// createTableSQL holds exported events; fields stay JSONB so ad-hoc SQL can
// reach into them.
const createTableSQL = `
CREATE TABLE IF NOT EXISTS modelbridge_activity (
	id      BIGSERIAL PRIMARY KEY,
	ts      TIMESTAMPTZ NOT NULL,
	kind    TEXT NOT NULL,
	subject TEXT,
	run_id  TEXT,
	fields  JSONB
)`

const insertSQL = `
INSERT INTO modelbridge_activity (ts, kind, subject, run_id, fields)
VALUES ($1, $2, $3, $4, $5)`

// Export bulk-loads the JSONL file at path into Postgres. Malformed lines are
// skipped, mirroring Aggregate. Returns the number of rows inserted.
func Export(ctx context.Context, dsn string, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return 0, err
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		return 0, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	inserted := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		var fields []byte
		if e.Fields != nil {
			fields, err = json.Marshal(e.Fields)
			if err != nil {
				continue
			}
		}
		if _, err := tx.Exec(ctx, insertSQL, e.Time, e.Kind, e.Subject, e.RunID, fields); err != nil {
			return inserted, err
		}
		inserted++
	}
	if err := sc.Err(); err != nil {
		return inserted, err
	}
	if err := tx.Commit(ctx); err != nil {
		return inserted, err
	}
	return inserted, nil
}
