package orm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/d0ngw/idgen/store"
	"github.com/go-sql-driver/mysql"
)

// mysql的duplicate entry错误码
const errDupEntry = 1062

var identRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func quote(ident string) (string, error) {
	if !identRegexp.MatchString(ident) {
		return "", fmt.Errorf("%w: invalid identifier %q", store.ErrInvalidRequest, ident)
	}
	return "`" + ident + "`", nil
}

// Engine implements store.Engine with MySQL tables.
// A counter table needs a primary key on its key column and an integer value column,
// a data table needs one column per document attribute.
type Engine struct {
	pool *Pool
}

// NewEngine create Engine
func NewEngine(pool *Pool) (*Engine, error) {
	if pool == nil || pool.db == nil {
		return nil, errors.New("pool must not be nil")
	}
	return &Engine{pool: pool}, nil
}

// UpdateItem implements store.Engine.UpdateItem.
// The increment is one upsert statement and LAST_INSERT_ID(expr) carries the new value back in the OK packet,
// so only one attribute can be added per request.
func (p *Engine) UpdateItem(ctx context.Context, req *store.UpdateRequest) (*store.UpdateResponse, error) {
	keyName, keyValue, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if len(req.Add) != 1 {
		return nil, fmt.Errorf("%w: mysql engine adds exactly one attribute,got %d", store.ErrInvalidRequest, len(req.Add))
	}
	name := req.Add.Names()[0]
	delta, _ := req.Add[name].Int64()

	table, err := quote(req.Table)
	if err != nil {
		return nil, err
	}
	keyCol, err := quote(keyName)
	if err != nil {
		return nil, err
	}
	valCol, err := quote(name)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("INSERT INTO %s (%s,%s) VALUES (?,LAST_INSERT_ID(?)) ON DUPLICATE KEY UPDATE %s=LAST_INSERT_ID(%s+?)",
		table, keyCol, valCol, valCol, valCol)
	result, err := p.pool.db.ExecContext(ctx, query, keyValue, delta, delta)
	if err != nil {
		return nil, err
	}
	count, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	resp := &store.UpdateResponse{}
	if req.ReturnValues == store.ReturnUpdatedNew {
		resp.Attributes = store.Item{name: store.Int(count)}
	}
	return resp, nil
}

// PutItem implements store.Engine.PutItem with INSERT,or REPLACE when IfNotExists is false.
// L and M attributes are stored as JSON text.
func (p *Engine) PutItem(ctx context.Context, req *store.PutRequest) error {
	if _, err := req.Validate(); err != nil {
		return err
	}
	table, err := quote(req.Table)
	if err != nil {
		return err
	}

	names := req.Item.Names()
	cols := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names))
	for _, name := range names {
		col, err := quote(name)
		if err != nil {
			return err
		}
		arg, err := columnValue(req.Item[name])
		if err != nil {
			return fmt.Errorf("attribute %s: %w", name, err)
		}
		cols = append(cols, col)
		args = append(args, arg)
	}

	verb := "REPLACE"
	if req.IfNotExists {
		verb = "INSERT"
	}
	query := fmt.Sprintf("%s INTO %s (%s) VALUES (%s)", verb, table, strings.Join(cols, ","),
		strings.TrimSuffix(strings.Repeat("?,", len(cols)), ","))
	_, err = p.pool.db.ExecContext(ctx, query, args...)
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == errDupEntry {
		return fmt.Errorf("%w: %w", store.ErrConditionFailed, err)
	}
	return err
}

func columnValue(av store.AttributeValue) (interface{}, error) {
	switch av.Type() {
	case "S":
		return *av.S, nil
	case "N":
		return *av.N, nil
	case "BOOL":
		return *av.BOOL, nil
	case "NULL":
		return nil, nil
	case "L", "M":
		data, err := store.MarshalJSON(store.ToInterface(av))
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}
	return nil, fmt.Errorf("%w: empty attribute value", store.ErrInvalidValue)
}
