// Package counter allocates unique increasing ids from atomic counter records
// and inserts documents stamped with them.
//
// Counter tables use `kname` (S) as key and `kval` (N) as the counter value.
// Data tables get the allocated id in the reserved `kid` (S) attribute.
// A counter record is created by its first increment,so the first id of a counter is 1.
package counter

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/d0ngw/idgen/store"
)

// 表结构约定
const (
	// KeyName key of the counter tables
	KeyName = "kname"
	// ValueName value of the counter tables
	ValueName = "kval"
	// IDName reserved id attribute of the data tables
	IDName = "kid"
)

var (
	// ErrBadResponse the engine's response to an increment does not carry a numeric kval
	ErrBadResponse = errors.New("bad increment response")
)

// AtomicIncrement increase the counter counterName in tableName by 1 and return the new count.
// The increment is one server side update,concurrent callers always get distinct counts.
func (p *Context) AtomicIncrement(ctx context.Context, tableName, counterName string) (count int64, err error) {
	conn := p.Connect()
	if tableName == "" || counterName == "" {
		return 0, fmt.Errorf("%w: tableName and counterName must not be empty", store.ErrInvalidRequest)
	}

	resp, err := conn.Engine.UpdateItem(ctx, &store.UpdateRequest{
		Table:        tableName,
		Key:          store.Item{KeyName: store.String(counterName)},
		Add:          store.Item{ValueName: store.Int(1)},
		ReturnValues: store.ReturnUpdatedNew,
	})
	if err != nil {
		return 0, err
	}
	return parseCount(resp)
}

func parseCount(resp *store.UpdateResponse) (int64, error) {
	if resp == nil || resp.Attributes == nil {
		return 0, fmt.Errorf("%w: no attributes", ErrBadResponse)
	}
	kval, ok := resp.Attributes[ValueName]
	if !ok {
		return 0, fmt.Errorf("%w: no %s", ErrBadResponse, ValueName)
	}
	if kval.N == nil {
		return 0, fmt.Errorf("%w: %s is %s,not N", ErrBadResponse, ValueName, kval)
	}
	count, err := strconv.ParseInt(*kval.N, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrBadResponse, ValueName, *kval.N, err)
	}
	if count < 1 {
		return 0, fmt.Errorf("%w: %s %d is not positive", ErrBadResponse, ValueName, count)
	}
	return count, nil
}

// NextID increase the counter and return the new count as a decimal id
func (p *Context) NextID(ctx context.Context, counterTable, counterName string) (string, error) {
	count, err := p.AtomicIncrement(ctx, counterTable, counterName)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(count, 10), nil
}
