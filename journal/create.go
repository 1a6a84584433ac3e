package journal

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitemigration"
	"zombiezen.com/go/sqlite/sqlitex"
)

var schema = sqlitemigration.Schema{
	Migrations: []string{
		`CREATE TABLE "identifiers" (
			"value" TEXT NOT NULL UNIQUE,
			PRIMARY KEY("value")
		);`,
		`CREATE TABLE "calls" (
			"call_id" INTEGER NOT NULL UNIQUE,
			"op"      TEXT NOT NULL,
			"path"    TEXT NOT NULL,
			"data"    JSON,
			"created" INTEGER NOT NULL, -- Unix timestamp (epoch seconds)
			PRIMARY KEY("call_id" AUTOINCREMENT)
		);`,
	},
}

func Create(path string, log *zap.Logger, values ...string) error {
	log = log.Named("journal-migration")

	// async - will return immediately
	pool := sqlitemigration.NewPool(path, schema, sqlitemigration.Options{
		Flags: sqlite.OpenReadWrite | sqlite.OpenCreate,
		PrepareConn: func(conn *sqlite.Conn) error {
			// Enable foreign keys. See https://sqlite.org/foreignkeys.html
			return sqlitex.ExecuteTransient(conn, "PRAGMA foreign_keys = ON;", nil)
		},
		OnError: func(e error) {
			log.Error("Problems creating journal database", zap.String("path", path), zap.Error(e))
		},
	})
	defer pool.Close()

	// Get a connection. This blocks until the migration completes.
	conn, err := pool.Get(context.TODO())
	if err != nil {
		return err
	}
	defer pool.Put(conn)

	for _, value := range values {
		if err := sqlitex.Execute(conn, `INSERT INTO identifiers (value) VALUES (?);`, &sqlitex.ExecOptions{
			Args: []any{value},
		}); err != nil {
			return fmt.Errorf("unable to save identifier value '%s' in journal: %w", value, err)
		}
	}

	return nil
}
