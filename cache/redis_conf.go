package cache

import (
	"errors"
	"fmt"
	"sort"
	"time"

	c "github.com/d0ngw/idgen/common"
	"github.com/gomodule/redigo/redis"
)

// Redis连接池的默认参数,时间单位为毫秒
const (
	DefaultConnectTimout = 5 * 1000
	DefaultReadTimeout   = 5 * 1000
	DefaultWriteTimeout  = 5 * 1000
	DefaultMaxActive     = 100
	DefaultMaxIdle       = 2
	DefaultIdleTimeout   = 60 * 1000
)

// RedisPoolConf Redis连接池配置
type RedisPoolConf struct {
	ConnectTimeout int `yaml:"connect_timeout"` //连接超时时间,单位毫秒
	ReadTimeout    int `yaml:"read_timeout"`    //读取超时,单位毫秒
	WriteTimeout   int `yaml:"write_timeout"`   //写超时,单位毫秒
	MaxIdle        int `yaml:"max_idle"`        //最大空闲连接
	MaxActive      int `yaml:"max_active"`      //最大活跃连接,0表示不限制
	IdleTimeout    int `yaml:"idle_timeout"`    //空闲连接的超时时间,单位毫秒
}

var defaultPool = &RedisPoolConf{
	ConnectTimeout: DefaultConnectTimout,
	ReadTimeout:    DefaultReadTimeout,
	WriteTimeout:   DefaultWriteTimeout,
	MaxActive:      DefaultMaxActive,
	MaxIdle:        DefaultMaxIdle,
	IdleTimeout:    DefaultIdleTimeout,
}

// RedisServer Redis实例的配置
type RedisServer struct {
	ID   string      `yaml:"id"`   //Redis实例的id
	Host string      `yaml:"host"` //Redis主机地址
	Port int         `yaml:"port"` //Redis的端口
	Auth string      `yaml:"auth"` //Redis认证密码
	DB   int         `yaml:"db"`   //Redis db
	pool *redis.Pool //Redis实例的连接池
}

func (p *RedisServer) addr() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// initPool 使用指定的参数初始化pool,只是创建连接池,不会建立连接
func (p *RedisServer) initPool(poolConf *RedisPoolConf) error {
	if p.pool != nil {
		return fmt.Errorf("server %s already inited", p.ID)
	}
	options := []redis.DialOption{
		redis.DialConnectTimeout(time.Duration(poolConf.ConnectTimeout) * time.Millisecond),
		redis.DialReadTimeout(time.Duration(poolConf.ReadTimeout) * time.Millisecond),
		redis.DialWriteTimeout(time.Duration(poolConf.WriteTimeout) * time.Millisecond),
		redis.DialDatabase(p.DB),
	}
	if p.Auth != "" {
		options = append(options, redis.DialPassword(p.Auth))
	}

	addr := p.addr()
	p.pool = &redis.Pool{
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr, options...)
		},
		MaxActive:   poolConf.MaxActive,
		MaxIdle:     poolConf.MaxIdle,
		IdleTimeout: time.Duration(poolConf.IdleTimeout) * time.Millisecond,
		Wait:        true,
	}
	c.Debugf("init redis pool %s@%s", p.ID, addr)
	return nil
}

func (p *RedisServer) close() error {
	if p.pool == nil {
		return nil
	}
	return p.pool.Close()
}

// RedisConf redis config
type RedisConf struct {
	Servers   []*RedisServer            `yaml:"servers"`      //实例列表
	Groups    map[string][]string       `yaml:"groups"`       //Redis组定义,key为组ID;value为Server的id列表
	Pool      *RedisPoolConf            `yaml:"pool"`         //默认的链接池配置
	GroupPool map[string]*RedisPoolConf `yaml:"groups_pools"` //Redis组的连接池配置
	groups    map[string][]*RedisServer
}

// Parse implements common.Configurer,it checks the servers and groups and creates the pools
func (p *RedisConf) Parse() error {
	if p == nil {
		return errors.New("no redis conf")
	}
	if p.groups != nil {
		return nil
	}
	servers := map[string]*RedisServer{}

	//检查server的配置
	var dupCheck = map[string]struct{}{}
	for _, server := range p.Servers {
		if server == nil || c.IsEmpty(server.ID, server.Host) {
			return fmt.Errorf("invalid redis server conf,id and host must not be empty")
		}
		if server.Port <= 0 {
			return fmt.Errorf("invalid redis server conf,port %d", server.Port)
		}
		for _, k := range []string{"id " + server.ID, server.addr() + "/" + fmt.Sprint(server.DB)} {
			if _, ok := dupCheck[k]; ok {
				return fmt.Errorf("duplicate server: %s", k)
			}
			dupCheck[k] = struct{}{}
		}
		servers[server.ID] = server
	}

	//检查group,每个group中的server使用独立的连接池
	groups := map[string][]*RedisServer{}
	for groupID, groupServers := range p.Groups {
		if groupID == "" {
			return fmt.Errorf("invalid redis group id")
		}
		if len(groupServers) == 0 {
			return fmt.Errorf("redis group id %s has no servers", groupID)
		}
		dupCheck = map[string]struct{}{}
		for _, serverID := range groupServers {
			if _, ok := dupCheck[serverID]; ok {
				return fmt.Errorf("duplicate server id %s in group %s", serverID, groupID)
			}
			dupCheck[serverID] = struct{}{}
		}

		poolConf := p.GroupPool[groupID]
		if poolConf == nil {
			poolConf = p.Pool
		}
		if poolConf == nil {
			poolConf = defaultPool
		}

		//对redis实例进行排序,保证key到实例的映射稳定
		ids := append([]string(nil), groupServers...)
		sort.Strings(ids)
		redisServers := make([]*RedisServer, 0, len(ids))
		groups[groupID] = redisServers
		for _, serverID := range ids {
			server := servers[serverID]
			if server == nil {
				closeGroups(groups)
				return fmt.Errorf("can't find server id %s", serverID)
			}
			groupServer := *server
			groupServer.pool = nil
			if err := groupServer.initPool(poolConf); err != nil {
				closeGroups(groups)
				return err
			}
			redisServers = append(redisServers, &groupServer)
			groups[groupID] = redisServers
		}
		groups[groupID] = redisServers
	}
	p.groups = groups
	return nil
}

// Close close all the pools created by Parse
func (p *RedisConf) Close() error {
	err := closeGroups(p.groups)
	p.groups = nil
	return err
}

func closeGroups(groups map[string][]*RedisServer) (err error) {
	for _, servers := range groups {
		for _, server := range servers {
			if e := server.close(); e != nil && err == nil {
				err = e
			}
		}
	}
	return
}
