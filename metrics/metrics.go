// Package metrics instruments a store.Engine with prometheus collectors
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/d0ngw/idgen/store"
	"github.com/prometheus/client_golang/prometheus"
)

// 操作与结果的label值
const (
	OpUpdate = "update_item"
	OpPut    = "put_item"

	ResultOK        = "ok"
	ResultCondition = "condition_failed"
	ResultInvalid   = "invalid"
	ResultError     = "error"
)

// Collectors the prometheus collectors of an instrumented engine
type Collectors struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewCollectors create the collectors and register them to reg when it is not nil
func NewCollectors(namespace string, reg prometheus.Registerer) (*Collectors, error) {
	cs := &Collectors{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "requests_total",
			Help:      "Engine requests by operation,table and result.",
		}, []string{"op", "table", "result"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "request_seconds",
			Help:      "Engine request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "table"}),
	}
	if reg != nil {
		for _, collector := range []prometheus.Collector{cs.Requests, cs.Latency} {
			if err := reg.Register(collector); err != nil {
				return nil, err
			}
		}
	}
	return cs, nil
}

// Engine wraps a store.Engine and records every request
type Engine struct {
	engine     store.Engine
	collectors *Collectors
}

// Instrument wrap engine with cs
func Instrument(engine store.Engine, cs *Collectors) *Engine {
	return &Engine{engine: engine, collectors: cs}
}

// Unwrap return the wrapped engine
func (p *Engine) Unwrap() store.Engine {
	return p.engine
}

func (p *Engine) observe(op, table string, start time.Time, err error) {
	p.collectors.Latency.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
	p.collectors.Requests.WithLabelValues(op, table, result(err)).Inc()
}

func result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, store.ErrConditionFailed):
		return ResultCondition
	case errors.Is(err, store.ErrInvalidRequest), errors.Is(err, store.ErrInvalidValue):
		return ResultInvalid
	}
	return ResultError
}

// UpdateItem implements store.Engine.UpdateItem
func (p *Engine) UpdateItem(ctx context.Context, req *store.UpdateRequest) (resp *store.UpdateResponse, err error) {
	defer func(start time.Time) {
		p.observe(OpUpdate, tableOf(req), start, err)
	}(time.Now())
	return p.engine.UpdateItem(ctx, req)
}

// PutItem implements store.Engine.PutItem
func (p *Engine) PutItem(ctx context.Context, req *store.PutRequest) (err error) {
	defer func(start time.Time) {
		table := ""
		if req != nil {
			table = req.Table
		}
		p.observe(OpPut, table, start, err)
	}(time.Now())
	return p.engine.PutItem(ctx, req)
}

func tableOf(req *store.UpdateRequest) string {
	if req == nil {
		return ""
	}
	return req.Table
}
