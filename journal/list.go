package journal

import (
	"fmt"
	"os"
	"path/filepath"

	humanize "github.com/dustin/go-humanize"
	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"mtpstub/common"
	"mtpstub/state"
)

func List(ctx *cli.Context) error {
	env := ctx.Generic(state.FlagName).(*state.LocalEnv)
	log := env.Log.Named(driverName)

	entries, err := os.ReadDir(env.Cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("unable to read journal directory '%s': %w", env.Cfg.Journal.Path, err)
	}
	var found bool
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) != ".db" {
			continue
		}
		found = true
		err := report(filepath.Join(env.Cfg.Journal.Path, e.Name()), log)
		if err != nil {
			log.Error("Unable to report journal", zap.String("path", filepath.Join(env.Cfg.Journal.Path, e.Name())), zap.Error(err))
		}
	}
	if !found {
		return common.ErrNoJournals
	}
	return nil
}

func report(dbpath string, log *zap.Logger) error {
	conn, err := sqlite.OpenConn(dbpath, sqlite.OpenReadOnly)
	if err != nil {
		return err
	}
	defer conn.Close()

	err = sqlitex.ExecuteTransient(conn, `PRAGMA foreign_keys = ON;`, nil)
	if err != nil {
		return err
	}

	var values []string
	if err := sqlitex.Execute(conn, `SELECT value FROM identifiers;`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			values = append(values, stmt.ColumnText(0))
			return nil
		},
	}); err != nil {
		return fmt.Errorf("unable to read journal identifiers: %w", err)
	}

	calls, err := readCalls(conn)
	if err != nil {
		return fmt.Errorf("unable to read journaled calls: %w", err)
	}

	log.Info("Report", zap.String("path", dbpath), zap.Int("calls", len(calls)), zap.Strings("identifiers", values))
	for _, call := range calls {
		log.Info("Intercepted call",
			zap.Int64("id", call.ID),
			zap.String("op", call.Op),
			zap.String("file", call.Info.Name),
			zap.String("size", humanize.IBytes(uint64(call.Info.ObjSize))),
			zap.Stringer("type", call.Info.Type),
			zap.String("path", call.Path),
			zap.Time("created", call.Created),
		)
	}
	return nil
}
