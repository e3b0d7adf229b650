package counter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/d0ngw/idgen/store"
)

// InsertDocument allocate an id from counterName in counterTable and insert doc into tableName with the id as `kid`.
//
// doc is not modified,a caller supplied `kid` is overwritten in the stored record.
// The increment and the insert are two operations: when the insert fails the allocated id is
// consumed and never reused,so ids may have gaps but are never duplicated.
func (p *Context) InsertDocument(ctx context.Context, tableName string, doc store.Document, counterTable, counterName string) (kid string, err error) {
	conn := p.Connect()
	if tableName == "" {
		return "", fmt.Errorf("%w: tableName must not be empty", store.ErrInvalidRequest)
	}
	item, err := store.MarshalDocument(doc)
	if err != nil {
		return "", err
	}

	count, err := p.AtomicIncrement(ctx, counterTable, counterName)
	if err != nil {
		return "", err
	}

	kid = strconv.FormatInt(count, 10)
	item[IDName] = store.String(kid)
	err = conn.Engine.PutItem(ctx, &store.PutRequest{
		Table:       tableName,
		KeyName:     IDName,
		Item:        item,
		IfNotExists: true,
	})
	if err != nil {
		return "", err
	}
	return kid, nil
}
