// Package conf loads the YAML configuration of idgen and builds the configured store.Engine
package conf

import (
	"errors"
	"fmt"

	"github.com/d0ngw/idgen/boltdb"
	"github.com/d0ngw/idgen/cache"
	c "github.com/d0ngw/idgen/common"
	"github.com/d0ngw/idgen/orm"
)

// 支持的存储引擎
const (
	DriverDynamo = "dynamo"
	DriverRedis  = "redis"
	DriverMySQL  = "mysql"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// MetricsConfig prometheus指标配置
type MetricsConfig struct {
	Enable    bool   `yaml:"enable"`
	Namespace string `yaml:"namespace"`
}

// Parse implements common.Configurer
func (p *MetricsConfig) Parse() error {
	if p.Namespace == "" {
		p.Namespace = "idgen"
	}
	return nil
}

// EngineConfig 存储引擎配置,只有driver对应的部分会被解析
type EngineConfig struct {
	Driver     string           `yaml:"driver"`
	Region     string           `yaml:"region"`      //dynamo
	Endpoint   string           `yaml:"endpoint"`    //dynamo,可选
	Redis      *cache.RedisConf `yaml:"redis"`       //redis
	RedisGroup string           `yaml:"redis_group"` //redis
	KeyPrefix  string           `yaml:"key_prefix"`  //redis
	DB         *orm.DBConfig    `yaml:"db"`          //mysql
	Bolt       *boltdb.Config   `yaml:"bolt"`        //bolt
	Metrics    *MetricsConfig   `yaml:"metrics"`
}

// Parse implements common.Configurer
func (p *EngineConfig) Parse() error {
	if p == nil {
		return errors.New("no engine conf")
	}
	switch p.Driver {
	case DriverDynamo:
		if p.Region == "" {
			return errors.New("dynamo engine need region")
		}
	case DriverRedis:
		if p.Redis == nil {
			return errors.New("redis engine need redis conf")
		}
		if _, ok := p.Redis.Groups[p.RedisGroup]; !ok {
			return fmt.Errorf("can't find redis group %q", p.RedisGroup)
		}
		if err := p.Redis.Parse(); err != nil {
			return err
		}
	case DriverMySQL:
		if p.DB == nil {
			return errors.New("mysql engine need db conf")
		}
		if err := p.DB.Parse(); err != nil {
			return err
		}
	case DriverBolt:
		if p.Bolt == nil {
			return errors.New("bolt engine need bolt conf")
		}
		if err := p.Bolt.Parse(); err != nil {
			return err
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported engine driver %q", p.Driver)
	}
	if p.Metrics != nil {
		return p.Metrics.Parse()
	}
	return nil
}

// CounterConfig 默认的计数器
type CounterConfig struct {
	Table string `yaml:"table"`
	Name  string `yaml:"name"`
}

// Parse implements common.Configurer
func (p *CounterConfig) Parse() error {
	if c.IsEmpty(p.Table, p.Name) {
		return errors.New("counter need table and name")
	}
	return nil
}

// Config idgen的配置
type Config struct {
	c.AppConfig `yaml:",inline"`
	Engine      *EngineConfig  `yaml:"engine"`
	Counter     *CounterConfig `yaml:"counter"`
}

// Parse implements common.Configurer
func (p *Config) Parse() error {
	if p.Engine == nil {
		return errors.New("no engine conf")
	}
	return c.Parse(p)
}

// Load 从configDir下的YAML文件加载配置
func Load(configDir string, pathes ...string) (*Config, error) {
	config := &Config{}
	if err := c.LoadConfig(config, "", configDir, pathes...); err != nil {
		return nil, err
	}
	return config, nil
}
