package cache

import (
	"context"
	"fmt"

	c "github.com/d0ngw/idgen/common"
	"github.com/gomodule/redigo/redis"
)

// RedisClient routes a Param to a redis server of its group
type RedisClient struct {
	groups map[string][]*RedisServer
}

// NewRedisClient create RedisClient with the parsed groups
func NewRedisClient(groups map[string][]*RedisServer) *RedisClient {
	return &RedisClient{groups: groups}
}

// NewRedisClientWithConf create RedisClient with the parsed RedisConf
func NewRedisClientWithConf(conf *RedisConf) *RedisClient {
	return NewRedisClient(conf.groups)
}

// GetConn acquire a conn of the server that owns param.Key(),the caller must close it
func (p *RedisClient) GetConn(ctx context.Context, param Param) (redis.Conn, error) {
	servers := p.groups[param.Group()]
	if len(servers) == 0 {
		return nil, fmt.Errorf("can't find redis group %s", param.Group())
	}
	server := servers[c.MurmurHash32([]byte(param.Key()), 0)%uint32(len(servers))]
	if server.pool == nil {
		return nil, fmt.Errorf("redis server %s has no pool", server.ID)
	}
	return server.pool.GetContext(ctx)
}

// Do execute cmd with param.Key() as the first argument
func (p *RedisClient) Do(ctx context.Context, param Param, cmd string, args ...interface{}) (reply interface{}, err error) {
	conn, err := p.GetConn(ctx, param)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return conn.Do(cmd, append([]interface{}{param.Key()}, args...)...)
}

// Eval execute the script with param.Key() as KEYS[1]
func (p *RedisClient) Eval(ctx context.Context, param Param, script *redis.Script, args ...interface{}) (reply interface{}, err error) {
	conn, err := p.GetConn(ctx, param)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return script.Do(conn, append([]interface{}{param.Key()}, args...)...)
}

// Multi execute the commands built by fn in one MULTI/EXEC transaction on the server of param,
// fn must only call conn.Send
func (p *RedisClient) Multi(ctx context.Context, param Param, fn func(conn redis.Conn) error) (reply interface{}, err error) {
	conn, err := p.GetConn(ctx, param)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if err = conn.Send("MULTI"); err != nil {
		return nil, err
	}
	if err = fn(conn); err != nil {
		_, _ = conn.Do("DISCARD")
		return nil, err
	}
	return conn.Do("EXEC")
}
