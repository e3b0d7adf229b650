package conf

import (
	"context"

	"github.com/d0ngw/idgen/boltdb"
	"github.com/d0ngw/idgen/cache"
	c "github.com/d0ngw/idgen/common"
	"github.com/d0ngw/idgen/counter"
	"github.com/d0ngw/idgen/dynamo"
	"github.com/d0ngw/idgen/metrics"
	"github.com/d0ngw/idgen/orm"
	"github.com/d0ngw/idgen/store"
	"github.com/prometheus/client_golang/prometheus"
)

// CloseFunc release the resources of an engine
type CloseFunc func() error

func noClose() error { return nil }

// NewEngine build the engine of the driver.
// When metrics is enabled the engine is wrapped by metrics.Engine and the collectors are registered to reg.
func (p *EngineConfig) NewEngine(ctx context.Context, reg prometheus.Registerer) (engine store.Engine, closeFn CloseFunc, err error) {
	if err = p.Parse(); err != nil {
		return nil, nil, err
	}
	closeFn = noClose

	switch p.Driver {
	case DriverDynamo:
		engine, err = dynamo.New(ctx, &dynamo.Config{Region: p.Region, Endpoint: p.Endpoint})
	case DriverRedis:
		engine, err = cache.NewEngine(cache.NewRedisClientWithConf(p.Redis), cache.NewParamConf(p.RedisGroup, p.KeyPrefix, 0))
		closeFn = p.Redis.Close
	case DriverMySQL:
		var pool *orm.Pool
		if pool, err = p.DB.NewPool("idgen"); err != nil {
			return nil, nil, err
		}
		closeFn = pool.Close
		engine, err = orm.NewEngine(pool)
	case DriverBolt:
		var bolt *boltdb.Engine
		if bolt, err = boltdb.Open(p.Bolt); err == nil {
			engine, closeFn = bolt, bolt.Close
		}
	default:
		engine = store.NewMemoryEngine()
	}
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}

	if p.Metrics != nil && p.Metrics.Enable {
		cs, e := metrics.NewCollectors(p.Metrics.Namespace, reg)
		if e != nil {
			_ = closeFn()
			return nil, nil, e
		}
		engine = metrics.Instrument(engine, cs)
	}
	c.Infof("create %s engine", p.Driver)
	return engine, closeFn, nil
}

// Init build the configured engine and install it into holder.
// It panics with counter.ErrAlreadyInitialized before building anything if holder is initialized.
func (p *Config) Init(ctx context.Context, holder *counter.Context, reg prometheus.Registerer) (CloseFunc, error) {
	if holder.Initialized() {
		panic(counter.ErrAlreadyInitialized)
	}
	engine, closeFn, err := p.Engine.NewEngine(ctx, reg)
	if err != nil {
		return nil, err
	}
	holder.InitWithEngine(engine, p.Engine.Region)
	return closeFn, nil
}
