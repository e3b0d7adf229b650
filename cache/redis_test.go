package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/d0ngw/idgen/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConf(t *testing.T) (*miniredis.Miniredis, *RedisConf) {
	s := miniredis.RunT(t)
	port, err := strconv.Atoi(s.Port())
	require.Nil(t, err)
	conf := &RedisConf{
		Servers: []*RedisServer{{ID: "test", Host: s.Host(), Port: port}},
		Groups:  map[string][]string{"test": {"test"}},
	}
	require.Nil(t, conf.Parse())
	t.Cleanup(func() { _ = conf.Close() })
	return s, conf
}

func newTestEngine(t *testing.T, expire int) (*miniredis.Miniredis, *Engine) {
	s, conf := newTestConf(t)
	e, err := NewEngine(NewRedisClientWithConf(conf), NewParamConf("test", "idgen_", expire))
	require.Nil(t, err)
	return s, e
}

func TestRedisConfParse(t *testing.T) {
	bad := []*RedisConf{
		nil,
		{Servers: []*RedisServer{{ID: "", Host: "127.0.0.1", Port: 6379}}},
		{Servers: []*RedisServer{{ID: "a", Host: "127.0.0.1", Port: 0}}},
		{Servers: []*RedisServer{{ID: "a", Host: "127.0.0.1", Port: 6379}, {ID: "a", Host: "127.0.0.2", Port: 6379}}},
		{Servers: []*RedisServer{{ID: "a", Host: "127.0.0.1", Port: 6379}, {ID: "b", Host: "127.0.0.1", Port: 6379}}},
		{Servers: []*RedisServer{{ID: "a", Host: "127.0.0.1", Port: 6379}}, Groups: map[string][]string{"g": {}}},
		{Servers: []*RedisServer{{ID: "a", Host: "127.0.0.1", Port: 6379}}, Groups: map[string][]string{"g": {"a", "a"}}},
		{Servers: []*RedisServer{{ID: "a", Host: "127.0.0.1", Port: 6379}}, Groups: map[string][]string{"g": {"a", "b"}}},
	}
	for i, conf := range bad {
		assert.NotNil(t, conf.Parse(), "case %d", i)
	}

	conf := &RedisConf{
		Servers: []*RedisServer{{ID: "b", Host: "127.0.0.1", Port: 6380}, {ID: "a", Host: "127.0.0.1", Port: 6379}},
		Groups:  map[string][]string{"g": {"b", "a"}},
		Pool:    &RedisPoolConf{MaxActive: 3, MaxIdle: 1},
	}
	require.Nil(t, conf.Parse())
	servers := conf.groups["g"]
	require.Equal(t, 2, len(servers))
	assert.Equal(t, "a", servers[0].ID)
	assert.Equal(t, 3, servers[0].pool.MaxActive)
	assert.Nil(t, conf.Servers[0].pool)
	assert.Nil(t, conf.Close())
}

func TestRedisClient(t *testing.T) {
	s, conf := newTestConf(t)
	client := NewRedisClientWithConf(conf)
	ctx := context.Background()
	param := NewParamConf("test", "t_", 0).NewParamKey("age")
	assert.Equal(t, "t_age", param.Key())

	_, err := client.Do(ctx, param, "SET", 10)
	require.Nil(t, err)
	v, err := s.Get("t_age")
	require.Nil(t, err)
	assert.Equal(t, "10", v)

	_, err = client.Do(ctx, NewParamConf("none", "", 0).NewParamKey("age"), "GET")
	assert.NotNil(t, err)
}

func TestEngineUpdateItem(t *testing.T) {
	s, e := newTestEngine(t, 0)
	ctx := context.Background()
	req := &store.UpdateRequest{
		Table:        "counters",
		Key:          store.Item{"kname": store.String("orders")},
		Add:          store.Item{"kval": store.Int(1)},
		ReturnValues: store.ReturnUpdatedNew,
	}
	for i := int64(1); i <= 3; i++ {
		resp, err := e.UpdateItem(ctx, req)
		require.Nil(t, err)
		v, err := resp.Attributes["kval"].Int64()
		require.Nil(t, err)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, "3", s.HGet("idgen_counters:orders", "kval"))

	count, ok, err := e.Counter(ctx, "counters", "orders", "kval")
	require.Nil(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 3, count)
	_, ok, err = e.Counter(ctx, "counters", "missing", "kval")
	require.Nil(t, err)
	assert.False(t, ok)

	s.HSet("idgen_counters:broken", "kval", "abc")
	req.Key = store.Item{"kname": store.String("broken")}
	_, err = e.UpdateItem(ctx, req)
	assert.NotNil(t, err)

	_, err = e.UpdateItem(ctx, &store.UpdateRequest{Table: "counters"})
	assert.True(t, errors.Is(err, store.ErrInvalidRequest))
}

func TestEngineConcurrentUpdate(t *testing.T) {
	_, e := newTestEngine(t, 0)
	const n = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[int64]bool{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := e.UpdateItem(context.Background(), &store.UpdateRequest{
				Table:        "counters",
				Key:          store.Item{"kname": store.String("orders")},
				Add:          store.Item{"kval": store.Int(1)},
				ReturnValues: store.ReturnUpdatedNew,
			})
			if !assert.Nil(t, err) {
				return
			}
			v, _ := resp.Attributes["kval"].Int64()
			mu.Lock()
			defer mu.Unlock()
			assert.False(t, seen[v])
			seen[v] = true
		}()
	}
	wg.Wait()
	assert.Equal(t, n, len(seen))
}

func TestEnginePutItem(t *testing.T) {
	s, e := newTestEngine(t, 60)
	ctx := context.Background()
	item := store.Item{
		"kid":      store.String("43"),
		"customer": store.String("Acme"),
		"total":    store.Number("12.5"),
		"tags":     store.List(store.String("a")),
	}
	req := &store.PutRequest{Table: "orders", KeyName: "kid", Item: item, IfNotExists: true}
	require.Nil(t, e.PutItem(ctx, req))
	assert.True(t, s.Exists("idgen_orders:43"))
	assert.True(t, s.TTL("idgen_orders:43") > 0)

	got, err := e.GetItem(ctx, "orders", "43")
	require.Nil(t, err)
	assert.True(t, item.Equal(got), "got %s", got)

	assert.Equal(t, store.ErrConditionFailed, e.PutItem(ctx, req))

	req.IfNotExists = false
	req.Item = store.Item{"kid": store.String("43"), "customer": store.String("Other")}
	require.Nil(t, e.PutItem(ctx, req))
	got, err = e.GetItem(ctx, "orders", "43")
	require.Nil(t, err)
	assert.True(t, req.Item.Equal(got), "got %s", got)

	got, err = e.GetItem(ctx, "orders", "44")
	require.Nil(t, err)
	assert.Nil(t, got)

	err = e.PutItem(ctx, &store.PutRequest{Table: "orders", KeyName: "kid", Item: store.Item{}})
	assert.True(t, errors.Is(err, store.ErrInvalidRequest))
}

func TestEngineTableSeparator(t *testing.T) {
	s, e := newTestEngine(t, 0)
	ctx := context.Background()
	doc := store.Item{"kid": store.String("b:c"), "customer": store.String("Acme")}
	require.Nil(t, e.PutItem(ctx, &store.PutRequest{Table: "a", KeyName: "kid", Item: doc}))

	_, err := e.UpdateItem(ctx, &store.UpdateRequest{
		Table: "a:b",
		Key:   store.Item{"kname": store.String("c")},
		Add:   store.Item{"kval": store.Int(1)},
	})
	assert.True(t, errors.Is(err, store.ErrInvalidRequest), "%v", err)
	err = e.PutItem(ctx, &store.PutRequest{Table: "a:b", KeyName: "kid", Item: store.Item{"kid": store.String("c")}})
	assert.True(t, errors.Is(err, store.ErrInvalidRequest), "%v", err)
	_, err = e.GetItem(ctx, "a:b", "c")
	assert.True(t, errors.Is(err, store.ErrInvalidRequest), "%v", err)
	_, _, err = e.Counter(ctx, "a:b", "c", "kval")
	assert.True(t, errors.Is(err, store.ErrInvalidRequest), "%v", err)

	got, err := e.GetItem(ctx, "a", "b:c")
	require.Nil(t, err)
	assert.True(t, doc.Equal(got), "got %s", got)
	assert.Equal(t, []string{"idgen_a:b:c"}, s.Keys())
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine(nil, NewParamConf("test", "", 0))
	assert.NotNil(t, err)
}
