package orm

import (
	"database/sql"
	"time"

	c "github.com/d0ngw/idgen/common"
	"github.com/go-sql-driver/mysql"
)

// DSN build the go-sql-driver/mysql data source name of the config
func (p *DBConfig) DSN() string {
	charset := p.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	conf := mysql.NewConfig()
	conf.User = p.User
	conf.Passwd = p.Pass
	conf.Net = "tcp"
	conf.Addr = p.URL
	conf.DBName = p.Schema
	conf.Params = map[string]string{"charset": charset}
	conf.Loc = time.Local
	conf.ParseTime = true
	return conf.FormatDSN()
}

// NewPool 构建MySql数据库连接池,sql.Open不会建立连接
func (p *DBConfig) NewPool(name string) (*Pool, error) {
	if p == nil {
		return nil, NewDBError(nil, "Not found config")
	}
	if err := p.Parse(); err != nil {
		return nil, NewDBErrorf(err, "Invalid config of %s", name)
	}

	db, err := sql.Open("mysql", p.DSN())
	if err != nil {
		c.Errorf("Error on initializing database connection,%s", err)
		return nil, NewDBErrorf(err, "Can't open connection of %s", name)
	}
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetMaxOpenConns(p.MaxConn)
	if p.MaxTimeSecond > 0 {
		db.SetConnMaxLifetime(time.Duration(p.MaxTimeSecond) * time.Second)
	}
	c.Infof("open mysql pool %s,%s/%s", name, p.URL, p.Schema)
	return NewPool(name, db), nil
}
