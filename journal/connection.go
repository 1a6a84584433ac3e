package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"mtpstub/objects"
)

// should be usable in the zap log.Named()
const driverName = "journal"

type Connection struct {
	log  *zap.Logger
	conn *sqlite.Conn
}

func Connect(path string, log *zap.Logger) (*Connection, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite)
	if err != nil {
		return nil, err
	}
	err = sqlitex.ExecuteTransient(conn, `PRAGMA foreign_keys = ON;`, nil)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Connection{log: log.Named(driverName), conn: conn}, nil
}

func (c *Connection) Disconnect() {
	if c == nil || c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		c.log.Error("Problems closing journal database", zap.Error(err))
	}
	c.conn = nil
}

// Record saves a single intercepted call, implements intercept.Recorder.
func (c *Connection) Record(op string, fi *objects.FileInfo, path string) error {
	data, err := json.Marshal(fi)
	if err != nil {
		return fmt.Errorf("unable to marshal descriptor for '%s': %w", fi.Name, err)
	}
	if err := sqlitex.Execute(c.conn, `INSERT INTO calls (op, path, data, created) VALUES (?, ?, json(?), ?);`, &sqlitex.ExecOptions{
		Args: []any{op, path, string(data), time.Now().UTC().Unix()},
	}); err != nil {
		return fmt.Errorf("unable to save intercepted call '%s' in journal: %w", op, err)
	}
	return nil
}

// Call is a single journaled interception.
type Call struct {
	ID      int64
	Op      string
	Path    string
	Created time.Time
	Info    objects.FileInfo
}

// Calls returns journaled interceptions in the order they were recorded.
func (c *Connection) Calls() ([]Call, error) {
	return readCalls(c.conn)
}

func readCalls(conn *sqlite.Conn) ([]Call, error) {
	var calls []Call
	if err := sqlitex.Execute(conn, `SELECT call_id, op, path, data, created FROM calls ORDER BY call_id;`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			call := Call{
				ID:      stmt.ColumnInt64(0),
				Op:      stmt.ColumnText(1),
				Path:    stmt.ColumnText(2),
				Created: time.Unix(stmt.ColumnInt64(4), 0).UTC(),
			}
			if err := json.Unmarshal([]byte(stmt.ColumnText(3)), &call.Info); err != nil {
				return fmt.Errorf("unable to unmarshal descriptor: %w", err)
			}
			calls = append(calls, call)
			return nil
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to retrieve calls from journal: %w", err)
	}
	return calls, nil
}

// driver interface
func (c *Connection) Name() string {
	return driverName
}

func (c *Connection) UniqueID() string {
	return driverName
}
