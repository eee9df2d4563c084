// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"runtime/debug"
	"strconv"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/ergochat/chansync/irc/history"
	"github.com/ergochat/chansync/irc/logger"
	"github.com/ergochat/chansync/irc/utils"
)

const (
	// maximum length in bytes of any message target (channel name) in its
	// canonicalized (i.e., casefolded) state:
	MaxTargetLength = 64

	// latest schema of the db
	latestDbSchema   = 1
	keySchemaVersion = "db.version"
	cleanupRowLimit  = 50
	cleanupPauseTime = 10 * time.Minute
	defaultTimeout   = 3 * time.Second
)

// MySQL implements history.Database on a MySQL server.
type MySQL struct {
	timeout int64
	db      *sql.DB
	logger  *logger.Manager
	config  Config

	insertHistory *sql.Stmt
	selectLatest  *sql.Stmt

	stopCleanup chan struct{}
}

// NewMySQL returns an unopened backend; call Open before use.
func NewMySQL(logger *logger.Manager, config Config) *MySQL {
	mysql := &MySQL{
		logger:      logger,
		config:      config,
		stopCleanup: make(chan struct{}),
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	atomic.StoreInt64(&mysql.timeout, int64(timeout))
	return mysql
}

func (m *MySQL) Open() (err error) {
	m.db, err = sql.Open("mysql", m.config.DSN())
	if err != nil {
		return err
	}

	err = m.fixSchemas()
	if err != nil {
		return err
	}

	err = m.prepareStatements()
	if err != nil {
		return err
	}

	go m.cleanupLoop()

	return nil
}

func (mysql *MySQL) Close() (err error) {
	if mysql.db == nil {
		return nil
	}
	close(mysql.stopCleanup)
	err = mysql.db.Close()
	mysql.db = nil
	return
}

func (mysql *MySQL) fixSchemas() (err error) {
	_, err = mysql.db.Exec(`CREATE TABLE IF NOT EXISTS metadata (
		key_name VARCHAR(32) primary key,
		value VARCHAR(32) NOT NULL
	) CHARSET=ascii COLLATE=ascii_bin;`)
	if err != nil {
		return err
	}

	var schema string
	err = mysql.db.QueryRow(`select value from metadata where key_name = ?;`, keySchemaVersion).Scan(&schema)
	if err == sql.ErrNoRows {
		err = mysql.createTables()
		if err != nil {
			return
		}
		_, err = mysql.db.Exec(`insert into metadata (key_name, value) values (?, ?);`, keySchemaVersion, strconv.Itoa(latestDbSchema))
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

func (mysql *MySQL) createTables() (err error) {
	_, err = mysql.db.Exec(fmt.Sprintf(`CREATE TABLE history (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		target VARBINARY(%[1]d) NOT NULL,
		nanotime BIGINT UNSIGNED NOT NULL,
		data BLOB NOT NULL,
		KEY (target, nanotime)
	) CHARSET=ascii COLLATE=ascii_bin;`, MaxTargetLength))
	return
}

func (mysql *MySQL) prepareStatements() (err error) {
	mysql.insertHistory, err = mysql.db.Prepare(`INSERT INTO history
		(target, nanotime, data) VALUES (?, ?, ?);`)
	if err != nil {
		return
	}
	mysql.selectLatest, err = mysql.db.Prepare(`SELECT data FROM history
		WHERE target = ? ORDER BY nanotime DESC, id DESC LIMIT ?;`)
	if err != nil {
		return
	}
	return
}

func (mysql *MySQL) getTimeout() time.Duration {
	return time.Duration(atomic.LoadInt64(&mysql.timeout))
}

func (mysql *MySQL) logError(context string, err error) (quit bool) {
	if err != nil {
		mysql.logger.Error("mysql", context, err.Error())
		return true
	}
	return false
}

func (mysql *MySQL) cleanupLoop() {
	defer func() {
		if r := recover(); r != nil {
			mysql.logger.Error("mysql",
				fmt.Sprintf("Panic in cleanup routine: %v\n%s", r, debug.Stack()))
			time.Sleep(cleanupPauseTime)
			go mysql.cleanupLoop()
		}
	}()

	for {
		if mysql.config.ExpireTime != 0 {
			for {
				startTime := time.Now()
				rowsDeleted, err := mysql.doCleanup(mysql.config.ExpireTime)
				elapsed := time.Since(startTime)
				mysql.logError("error during row cleanup", err)
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
		case <-mysql.stopCleanup:
			return
		case <-time.After(cleanupPauseTime):
		}
	}
}

func (mysql *MySQL) doCleanup(age time.Duration) (count int, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupPauseTime)
	defer cancel()

	cutoff := time.Now().Add(-age).UnixNano()
	result, err := mysql.db.ExecContext(ctx, `DELETE FROM history WHERE nanotime < ? LIMIT ?;`, cutoff, cleanupRowLimit)
	if err != nil {
		return
	}
	deleted, err := result.RowsAffected()
	if deleted == 0 {
		mysql.logger.Debug("mysql", "found no rows to clean up")
	} else {
		mysql.logger.Debug("mysql", fmt.Sprintf("deleted %d history rows older than %s", deleted, utils.FormatTimestamp(time.Unix(0, cutoff))))
	}
	return int(deleted), err
}

func (mysql *MySQL) AddChannelItem(target string, item history.Item) (err error) {
	if mysql.db == nil {
		return
	}

	if target == "" || len(target) > MaxTargetLength {
		return utils.ErrInvalidParams
	}

	data, err := history.MarshalItem(&item)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), mysql.getTimeout())
	defer cancel()

	_, err = mysql.insertHistory.ExecContext(ctx, target, item.Time.UnixNano(), data)
	mysql.logError("could not insert history item", err)
	return
}

func (mysql *MySQL) Latest(target string, limit int) (results []history.Item, err error) {
	if mysql.db == nil {
		return
	}
	if limit <= 0 {
		limit = 1 << 30
	}

	ctx, cancel := context.WithTimeout(context.Background(), mysql.getTimeout())
	defer cancel()

	rows, err := mysql.selectLatest.QueryContext(ctx, target, limit)
	if mysql.logError("could not select history items", err) {
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

	// the query returns newest first
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return
}
