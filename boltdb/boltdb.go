// Package boltdb implements store.Engine over an embedded bbolt file
package boltdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	c "github.com/d0ngw/idgen/common"
	"github.com/d0ngw/idgen/store"
	"go.etcd.io/bbolt"
)

// Config bolt配置
type Config struct {
	Path        string `yaml:"path"`         //数据文件路径
	OpenTimeout int    `yaml:"open_timeout"` //等待文件锁的时间,单位毫秒,0表示一直等待
}

// Parse implements common.Configurer
func (p *Config) Parse() error {
	if p.Path == "" {
		return errors.New("bolt: need path")
	}
	return nil
}

// Engine implements store.Engine,each table is a bucket and each record a msgpack encoded item.
// bbolt serialises read-write transactions so an increment is atomic.
type Engine struct {
	db *bbolt.DB
}

// Open open or create the bolt file of conf
func Open(conf *Config) (*Engine, error) {
	if conf == nil {
		return nil, errors.New("bolt: nil config")
	}
	if err := conf.Parse(); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(conf.Path, 0o600, &bbolt.Options{Timeout: time.Duration(conf.OpenTimeout) * time.Millisecond})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", conf.Path, err)
	}
	c.Infof("open bolt engine %s", conf.Path)
	return &Engine{db: db}, nil
}

// Close close the bolt file
func (p *Engine) Close() error {
	return p.db.Close()
}

// UpdateItem implements store.Engine.UpdateItem in one read-write transaction
func (p *Engine) UpdateItem(ctx context.Context, req *store.UpdateRequest) (*store.UpdateResponse, error) {
	keyName, keyValue, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	var updated store.Item
	err = p.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(req.Table))
		if err != nil {
			return err
		}
		item := store.Item{keyName: req.Key[keyName]}
		if data := bucket.Get([]byte(keyValue)); data != nil {
			if item, err = store.DecodeItem(data); err != nil {
				return fmt.Errorf("bolt: decode %s/%s: %w", req.Table, keyValue, err)
			}
		}
		if updated, err = store.ApplyAdd(item, req.Add); err != nil {
			return err
		}
		data, err := store.EncodeItem(item)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(keyValue), data)
	})
	if err != nil {
		return nil, err
	}

	resp := &store.UpdateResponse{}
	if req.ReturnValues == store.ReturnUpdatedNew {
		resp.Attributes = updated
	}
	return resp, nil
}

// PutItem implements store.Engine.PutItem
func (p *Engine) PutItem(ctx context.Context, req *store.PutRequest) error {
	keyValue, err := req.Validate()
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	data, err := store.EncodeItem(req.Item)
	if err != nil {
		return err
	}
	return p.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(req.Table))
		if err != nil {
			return err
		}
		if req.IfNotExists && bucket.Get([]byte(keyValue)) != nil {
			return store.ErrConditionFailed
		}
		return bucket.Put([]byte(keyValue), data)
	})
}

// GetItem load a record,nil if absent
func (p *Engine) GetItem(table, keyValue string) (item store.Item, err error) {
	err = p.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(table))
		if bucket == nil {
			return nil
		}
		data := bucket.Get([]byte(keyValue))
		if data == nil {
			return nil
		}
		item, err = store.DecodeItem(data)
		return err
	})
	return
}
