package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	c "github.com/d0ngw/idgen/common"
	"github.com/d0ngw/idgen/store"
	"github.com/gomodule/redigo/redis"
)

// 记录以hash保存,key为 keyPrefix + table + ":" + 主键值.
// 计数器字段保存为整数以便HINCRBY,文档字段保存为msgpack编码的AttributeValue
const putLua = `
if ARGV[1] == '1' and redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('DEL', KEYS[1])
for i = 3, #ARGV, 2 do
  redis.call('HSET', KEYS[1], ARGV[i], ARGV[i + 1])
end
local expire = tonumber(ARGV[2])
if expire > 0 then
  redis.call('EXPIRE', KEYS[1], expire)
end
return 1
`

// Engine implements store.Engine with redis hashes
type Engine struct {
	client *RedisClient
	param  *ParamConf
	put    *redis.Script
}

// NewEngine create Engine,records are stored in the redis group of param with its key prefix
func NewEngine(client *RedisClient, param *ParamConf) (*Engine, error) {
	if c.HasNil(client, param) {
		return nil, errors.New("client and param must not be nil")
	}
	return &Engine{
		client: client,
		param:  param,
		put:    redis.NewScript(1, putLua),
	}, nil
}

func (p *Engine) recordKey(table, keyValue string) (*ParamKey, error) {
	// 表名中不能有分隔符,否则不同表的记录可能映射到同一个key
	if strings.Contains(table, ":") {
		return nil, fmt.Errorf("%w: table %q must not contain ':'", store.ErrInvalidRequest, table)
	}
	return p.param.NewParamKey(table + ":" + keyValue), nil
}

// UpdateItem implements store.Engine.UpdateItem,all deltas are applied by HINCRBY in one MULTI/EXEC
func (p *Engine) UpdateItem(ctx context.Context, req *store.UpdateRequest) (*store.UpdateResponse, error) {
	_, keyValue, err := req.Validate()
	if err != nil {
		return nil, err
	}
	param, err := p.recordKey(req.Table, keyValue)
	if err != nil {
		return nil, err
	}
	names := req.Add.Names()
	reply, err := redis.Int64s(p.client.Multi(ctx, param, func(conn redis.Conn) error {
		key := param.Key()
		for _, name := range names {
			delta, _ := req.Add[name].Int64()
			if err := conn.Send("HINCRBY", key, name, delta); err != nil {
				return err
			}
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	if len(reply) != len(names) {
		return nil, fmt.Errorf("bad reply length:%d,expect %d", len(reply), len(names))
	}

	resp := &store.UpdateResponse{}
	if req.ReturnValues == store.ReturnUpdatedNew {
		resp.Attributes = make(store.Item, len(names))
		for i, name := range names {
			resp.Attributes[name] = store.Int(reply[i])
		}
	}
	return resp, nil
}

// PutItem implements store.Engine.PutItem,the record is replaced atomically by a lua script
func (p *Engine) PutItem(ctx context.Context, req *store.PutRequest) error {
	keyValue, err := req.Validate()
	if err != nil {
		return err
	}
	param, err := p.recordKey(req.Table, keyValue)
	if err != nil {
		return err
	}
	ifNotExists := "0"
	if req.IfNotExists {
		ifNotExists = "1"
	}
	args := []interface{}{ifNotExists, p.param.Expire()}
	for _, name := range req.Item.Names() {
		data, err := store.EncodeValue(req.Item[name])
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		args = append(args, name, data)
	}

	put, err := redis.Int(p.client.Eval(ctx, param, p.put, args...))
	if err != nil {
		return err
	}
	if put == 0 {
		return store.ErrConditionFailed
	}
	return nil
}

// GetItem load a document written by PutItem,nil if absent
func (p *Engine) GetItem(ctx context.Context, table, keyValue string) (store.Item, error) {
	param, err := p.recordKey(table, keyValue)
	if err != nil {
		return nil, err
	}
	values, err := redis.StringMap(p.client.Do(ctx, param, "HGETALL"))
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	item := make(store.Item, len(values))
	for k, v := range values {
		av, err := store.DecodeValue([]byte(v))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", k, err)
		}
		item[k] = av
	}
	return item, nil
}

// Counter load the value of a counter attribute written by UpdateItem
func (p *Engine) Counter(ctx context.Context, table, keyValue, name string) (count int64, ok bool, err error) {
	param, err := p.recordKey(table, keyValue)
	if err != nil {
		return 0, false, err
	}
	count, err = redis.Int64(p.client.Do(ctx, param, "HGET", name))
	if err == redis.ErrNil {
		return 0, false, nil
	}
	return count, err == nil, err
}
