// Package orm implements store.Engine over MySQL
package orm

import (
	"database/sql"
	"fmt"
)

// DBError 数据库操作错误
type DBError struct {
	Msg string
	Err error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("DBError msg:%s,err:%v", e.Msg, e.Err)
}

// Unwrap return the cause
func (e *DBError) Unwrap() error {
	return e.Err
}

// NewDBError 构建数据库操作错误
func NewDBError(err error, msg string) *DBError {
	return &DBError{Msg: msg, Err: err}
}

// NewDBErrorf 使用fmt.Sprintf构建
func NewDBErrorf(err error, msgFormat string, args ...interface{}) *DBError {
	return &DBError{Msg: fmt.Sprintf(msgFormat, args...), Err: err}
}

// Pool 数据库连接池
type Pool struct {
	name string
	db   *sql.DB
}

// NewPool wrap an opened db
func NewPool(name string, db *sql.DB) *Pool {
	return &Pool{name: name, db: db}
}

// DB return sql.DB
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Name return the pool name
func (p *Pool) Name() string {
	return p.name
}

// Close close the db
func (p *Pool) Close() error {
	return p.db.Close()
}
