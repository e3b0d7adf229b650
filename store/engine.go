package store

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRequest the request is rejected before any I/O
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidValue the attribute value has an unexpected type or content
	ErrInvalidValue = errors.New("invalid attribute value")
	// ErrConditionFailed a conditional put found an existing record
	ErrConditionFailed = errors.New("conditional check failed")
)

// ReturnValue select the attributes returned by an update
type ReturnValue string

// 支持的返回值
const (
	ReturnNone       ReturnValue = "NONE"
	ReturnUpdatedNew ReturnValue = "UPDATED_NEW"
)

// UpdateRequest atomically adds numeric deltas to the attributes of one record.
// A missing record or attribute is treated as 0 before the add.
type UpdateRequest struct {
	Table        string
	Key          Item // exactly one key attribute
	Add          Item // attribute name -> N delta
	ReturnValues ReturnValue
}

// UpdateResponse the result of an update
type UpdateResponse struct {
	// Attributes holds the post-update values of the added attributes when
	// ReturnValues is ReturnUpdatedNew
	Attributes Item
}

// PutRequest writes one record
type PutRequest struct {
	Table string
	// KeyName the key attribute of the table,engines without a server side schema use it to address the record
	KeyName string
	Item    Item
	// IfNotExists fail with a conditional error instead of replacing an existing record
	IfNotExists bool
}

// Engine is a remote or embedded key-value engine
type Engine interface {
	// UpdateItem apply req as one atomic server side operation
	UpdateItem(ctx context.Context, req *UpdateRequest) (*UpdateResponse, error)
	// PutItem write req.Item as a single record
	PutItem(ctx context.Context, req *PutRequest) error
}

// Validate check the request and return the key attribute
func (p *UpdateRequest) Validate() (keyName string, keyValue string, err error) {
	if p == nil || p.Table == "" {
		return "", "", fmt.Errorf("%w: empty table", ErrInvalidRequest)
	}
	if keyName, keyValue, err = KeyOf(p.Key); err != nil {
		return
	}
	if len(p.Add) == 0 {
		return "", "", fmt.Errorf("%w: nothing to add", ErrInvalidRequest)
	}
	for name, delta := range p.Add {
		if name == "" || name == keyName {
			return "", "", fmt.Errorf("%w: can't add to attribute %q", ErrInvalidRequest, name)
		}
		if _, err = delta.Int64(); err != nil {
			return "", "", fmt.Errorf("%w: delta of %s: %v", ErrInvalidRequest, name, err)
		}
	}
	switch p.ReturnValues {
	case "", ReturnNone, ReturnUpdatedNew:
	default:
		return "", "", fmt.Errorf("%w: unsupported return values %s", ErrInvalidRequest, p.ReturnValues)
	}
	return
}

// Validate check the request and return the key value
func (p *PutRequest) Validate() (keyValue string, err error) {
	if p == nil || p.Table == "" {
		return "", fmt.Errorf("%w: empty table", ErrInvalidRequest)
	}
	if p.KeyName == "" {
		return "", fmt.Errorf("%w: empty key name", ErrInvalidRequest)
	}
	v, ok := p.Item[p.KeyName]
	if !ok {
		return "", fmt.Errorf("%w: item has no key %s", ErrInvalidRequest, p.KeyName)
	}
	return keyString(v)
}

// KeyOf return the single key attribute of key
func KeyOf(key Item) (name string, value string, err error) {
	if len(key) != 1 {
		return "", "", fmt.Errorf("%w: key must have exactly one attribute,got %d", ErrInvalidRequest, len(key))
	}
	for k, v := range key {
		name = k
		value, err = keyString(v)
	}
	return
}

func keyString(v AttributeValue) (string, error) {
	switch v.Type() {
	case "S":
		if *v.S == "" {
			return "", fmt.Errorf("%w: empty key", ErrInvalidRequest)
		}
		return *v.S, nil
	case "N":
		return *v.N, nil
	}
	return "", fmt.Errorf("%w: key must be S or N,got %q", ErrInvalidRequest, v.Type())
}

// ApplyAdd add the deltas to item and return the post-update values of the added attributes,
// item is left untouched when an error is returned
func ApplyAdd(item Item, add Item) (Item, error) {
	updated := make(Item, len(add))
	for name, delta := range add {
		d, err := delta.Int64()
		if err != nil {
			return nil, err
		}
		var cur int64
		if v, ok := item[name]; ok {
			if cur, err = v.Int64(); err != nil {
				return nil, fmt.Errorf("attribute %s: %w", name, err)
			}
		}
		if (d > 0 && cur > math.MaxInt64-d) || (d < 0 && cur < math.MinInt64-d) {
			return nil, fmt.Errorf("%w: attribute %s overflows adding %d to %d", ErrInvalidValue, name, d, cur)
		}
		updated[name] = Int(cur + d)
	}
	for name, v := range updated {
		item[name] = v
	}
	return updated, nil
}
