// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ergochat/chansync/irc/history"
	"github.com/ergochat/chansync/irc/logger"
	"github.com/ergochat/chansync/irc/utils"
)

const (
	// latest schema of the db
	latestDbSchema   = 1
	keySchemaVersion = "db.version"
	cleanupRowLimit  = 50
	cleanupPauseTime = 10 * time.Minute
	defaultTimeout   = 3 * time.Second
)

// PostgreSQL implements history.Database on a PostgreSQL server. Each message
// is stored once in `history`; `sequence` indexes it by channel and time.
type PostgreSQL struct {
	db     *sql.DB
	logger *logger.Manager
	config Config

	insertHistory  *sql.Stmt
	insertSequence *sql.Stmt
	selectLatest   *sql.Stmt

	timeout     atomic.Uint64
	stopCleanup chan struct{}
}

var _ history.Database = (*PostgreSQL)(nil)

// NewPostgreSQLDatabase connects, creating or checking the schema.
func NewPostgreSQLDatabase(logger *logger.Manager, config Config) (*PostgreSQL, error) {
	var pg PostgreSQL

	pg.logger = logger
	pg.config = config
	pg.stopCleanup = make(chan struct{})
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	pg.timeout.Store(uint64(timeout))

	return &pg, pg.open()
}

func (pg *PostgreSQL) getTimeout() time.Duration {
	return time.Duration(pg.timeout.Load())
}

func (pg *PostgreSQL) open() (err error) {
	pg.db, err = sql.Open("pgx", pg.config.ConnString())
	if err != nil {
		return err
	}

	if pg.config.MaxConns != 0 {
		pg.db.SetMaxOpenConns(pg.config.MaxConns)
		pg.db.SetMaxIdleConns(pg.config.MaxConns)
	}
	if pg.config.ConnMaxLifetime != 0 {
		pg.db.SetConnMaxLifetime(pg.config.ConnMaxLifetime)
	}

	err = pg.fixSchemas()
	if err != nil {
		return err
	}

	err = pg.prepareStatements()
	if err != nil {
		return err
	}

	go pg.cleanupLoop()

	return nil
}

func (pg *PostgreSQL) Close() (err error) {
	if pg.db == nil {
		return nil
	}
	close(pg.stopCleanup)
	err = pg.db.Close()
	pg.db = nil
	return
}

func (pg *PostgreSQL) fixSchemas() (err error) {
	_, err = pg.db.Exec(`CREATE TABLE IF NOT EXISTS metadata (
		key_name VARCHAR(32) PRIMARY KEY,
		value VARCHAR(32) NOT NULL
	);`)
	if err != nil {
		return err
	}

	var schema string
	err = pg.db.QueryRow(`SELECT value FROM metadata WHERE key_name = $1;`, keySchemaVersion).Scan(&schema)
	if err == sql.ErrNoRows {
		err = pg.createTables()
		if err != nil {
			return
		}
		_, err = pg.db.Exec(`INSERT INTO metadata (key_name, value) VALUES ($1, $2);`, keySchemaVersion, strconv.Itoa(latestDbSchema))
		return
	} else if err != nil {
		return err
	}

	version, _ := strconv.Atoi(schema)
	if version != latestDbSchema {
		return &utils.IncompatibleSchemaError{CurrentVersion: version, RequiredVersion: latestDbSchema}
	}
	return nil
}

func (pg *PostgreSQL) createTables() (err error) {
	_, err = pg.db.Exec(`CREATE TABLE history (
		id BIGSERIAL PRIMARY KEY,
		data BYTEA NOT NULL
	);`)
	if err != nil {
		return err
	}

	_, err = pg.db.Exec(fmt.Sprintf(`CREATE TABLE sequence (
		history_id BIGINT NOT NULL PRIMARY KEY,
		target BYTEA NOT NULL CHECK (octet_length(target) <= %[1]d),
		nanotime BIGINT NOT NULL CHECK (nanotime >= 0)
	);`, MaxTargetLength))
	if err != nil {
		return err
	}
	_, err = pg.db.Exec(`CREATE INDEX idx_sequence_target_nanotime ON sequence (target, nanotime);`)
	return
}

func (pg *PostgreSQL) prepareStatements() (err error) {
	pg.insertHistory, err = pg.db.Prepare(`INSERT INTO history
		(data) VALUES ($1) RETURNING id;`)
	if err != nil {
		return
	}
	pg.insertSequence, err = pg.db.Prepare(`INSERT INTO sequence
		(target, nanotime, history_id) VALUES ($1, $2, $3);`)
	if err != nil {
		return
	}
	pg.selectLatest, err = pg.db.Prepare(`SELECT history.data FROM history
		JOIN sequence ON history.id = sequence.history_id
		WHERE sequence.target = $1
		ORDER BY sequence.nanotime DESC, history.id DESC LIMIT $2;`)
	return
}

func (pg *PostgreSQL) logError(context string, err error) (quit bool) {
	if err != nil {
		pg.logger.Error("postgres", context, err.Error())
		return true
	}
	return false
}

func (pg *PostgreSQL) cleanupLoop() {
	defer func() {
		if r := recover(); r != nil {
			pg.logger.Error("postgres",
				fmt.Sprintf("Panic in cleanup routine: %v\n%s", r, debug.Stack()))
			time.Sleep(cleanupPauseTime)
			go pg.cleanupLoop()
		}
	}()

	for {
		if pg.config.ExpireTime != 0 {
			for {
				startTime := time.Now()
				rowsDeleted, err := pg.doCleanup(pg.config.ExpireTime)
				elapsed := time.Since(startTime)
				pg.logError("error during row cleanup", err)
				// keep going as long as we're accomplishing significant work
				// (don't busy-wait on small numbers of rows expiring):
				if rowsDeleted < (cleanupRowLimit / 10) {
					break
				}
				// crude backpressure mechanism: if the database is slow,
				// give it time to process other queries
				time.Sleep(elapsed)
			}
		}
		select {
		case <-pg.stopCleanup:
			return
		case <-time.After(cleanupPauseTime):
		}
	}
}

func (pg *PostgreSQL) doCleanup(age time.Duration) (count int, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupPauseTime)
	defer cancel()

	ids, err := pg.selectCleanupIDs(ctx, age)
	if err != nil {
		return
	}
	if len(ids) == 0 {
		pg.logger.Debug("postgres", "found no rows to clean up")
		return
	}

	pg.logger.Debug("postgres", fmt.Sprintf("deleting %d history rows older than %s", len(ids), age))
	return len(ids), pg.deleteHistoryIDs(ctx, ids)
}

func (pg *PostgreSQL) selectCleanupIDs(ctx context.Context, age time.Duration) (ids []uint64, err error) {
	threshold := time.Now().Add(-age).UnixNano()
	rows, err := pg.db.QueryContext(ctx, `
		SELECT history_id FROM sequence
		WHERE nanotime < $1
		ORDER BY history_id LIMIT $2;`, threshold, cleanupRowLimit)
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var id uint64
		if err = rows.Scan(&id); err != nil {
			return
		}
		ids = append(ids, id)
	}
	err = rows.Err()
	return
}

func (pg *PostgreSQL) deleteHistoryIDs(ctx context.Context, ids []uint64) (err error) {
	// can't use $n binding for a variable number of arguments, build the IN clause manually
	inClause := buildInClause(ids)

	_, err = pg.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM sequence WHERE history_id in %s;`, inClause))
	if err != nil {
		return
	}
	_, err = pg.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM history WHERE id in %s;`, inClause))
	return
}

func buildInClause(ids []uint64) string {
	var inBuf strings.Builder
	inBuf.WriteByte('(')
	for i, id := range ids {
		if i != 0 {
			inBuf.WriteRune(',')
		}
		fmt.Fprintf(&inBuf, "%d", id)
	}
	inBuf.WriteRune(')')
	return inBuf.String()
}

func (pg *PostgreSQL) AddChannelItem(target string, item history.Item) (err error) {
	if pg.db == nil {
		return
	}

	if target == "" || len(target) > MaxTargetLength {
		return utils.ErrInvalidParams
	}

	value, err := history.MarshalItem(&item)
	if err != nil {
		return fmt.Errorf("could not marshal item: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pg.getTimeout())
	defer cancel()

	tx, err := pg.db.BeginTx(ctx, nil)
	if pg.logError("could not begin transaction", err) {
		return
	}
	defer tx.Rollback()

	// Use RETURNING clause to get the ID in a single round-trip
	var id int64
	err = tx.StmtContext(ctx, pg.insertHistory).QueryRowContext(ctx, value).Scan(&id)
	if pg.logError("could not insert item", err) {
		return
	}
	_, err = tx.StmtContext(ctx, pg.insertSequence).ExecContext(ctx, []byte(target), item.Time.UnixNano(), id)
	if err != nil {
		return fmt.Errorf("could not insert sequence entry: %w", err)
	}
	return tx.Commit()
}

func (pg *PostgreSQL) Latest(target string, limit int) (results []history.Item, err error) {
	if pg.db == nil {
		return
	}
	if limit <= 0 {
		limit = 1 << 30
	}

	ctx, cancel := context.WithTimeout(context.Background(), pg.getTimeout())
	defer cancel()

	rows, err := pg.selectLatest.QueryContext(ctx, []byte(target), limit)
	if pg.logError("could not select history items", err) {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var data []byte
		if err = rows.Scan(&data); err != nil {
			return nil, err
		}
		var item history.Item
		if err = history.UnmarshalItem(data, &item); err != nil {
			return nil, fmt.Errorf("could not decode history item: %w", err)
		}
		results = append(results, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	// newest first from the query; callers want oldest first
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return
}
