package store

import (
	"context"
	"sync"
)

// MemoryEngine is an in-process Engine,every operation holds one lock so updates are atomic
type MemoryEngine struct {
	mu     sync.Mutex
	tables map[string]map[string]Item
}

// NewMemoryEngine create an empty MemoryEngine
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{tables: map[string]map[string]Item{}}
}

func (p *MemoryEngine) table(name string) map[string]Item {
	t := p.tables[name]
	if t == nil {
		t = map[string]Item{}
		p.tables[name] = t
	}
	return t
}

// UpdateItem implements Engine.UpdateItem
func (p *MemoryEngine) UpdateItem(ctx context.Context, req *UpdateRequest) (*UpdateResponse, error) {
	keyName, keyValue, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	t := p.table(req.Table)
	item := t[keyValue]
	if item == nil {
		item = Item{keyName: req.Key[keyName].clone()}
	}
	updated, err := ApplyAdd(item, req.Add)
	if err != nil {
		return nil, err
	}
	t[keyValue] = item

	resp := &UpdateResponse{}
	if req.ReturnValues == ReturnUpdatedNew {
		resp.Attributes = updated.Clone()
	}
	return resp, nil
}

// PutItem implements Engine.PutItem
func (p *MemoryEngine) PutItem(ctx context.Context, req *PutRequest) error {
	keyValue, err := req.Validate()
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	t := p.table(req.Table)
	if _, ok := t[keyValue]; ok && req.IfNotExists {
		return ErrConditionFailed
	}
	t[keyValue] = req.Item.Clone()
	return nil
}

// Get return a copy of the record,nil if absent
func (p *MemoryEngine) Get(table, keyValue string) Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tables[table][keyValue].Clone()
}

// Len return the number of records in table
func (p *MemoryEngine) Len(table string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tables[table])
}
