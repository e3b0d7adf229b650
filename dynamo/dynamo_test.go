package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/d0ngw/idgen/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	updateIn  *dynamodb.UpdateItemInput
	updateOut *dynamodb.UpdateItemOutput
	putIn     *dynamodb.PutItemInput
	err       error
}

func (p *fakeAPI) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	p.updateIn = params
	return p.updateOut, p.err
}

func (p *fakeAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	p.putIn = params
	if p.err != nil {
		return nil, p.err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func TestUpdateItem(t *testing.T) {
	api := &fakeAPI{updateOut: &dynamodb.UpdateItemOutput{
		Attributes: map[string]types.AttributeValue{"kval": &types.AttributeValueMemberN{Value: "42"}},
	}}
	e := NewWithAPI(api)
	resp, err := e.UpdateItem(context.Background(), &store.UpdateRequest{
		Table:        "counters",
		Key:          store.Item{"kname": store.String("orders")},
		Add:          store.Item{"kval": store.Int(1)},
		ReturnValues: store.ReturnUpdatedNew,
	})
	require.Nil(t, err)
	assert.True(t, store.Item{"kval": store.Number("42")}.Equal(resp.Attributes))

	in := api.updateIn
	assert.Equal(t, "counters", aws.ToString(in.TableName))
	assert.Equal(t, "ADD #a0 :a0", aws.ToString(in.UpdateExpression))
	assert.Equal(t, map[string]string{"#a0": "kval"}, in.ExpressionAttributeNames)
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1"}, in.ExpressionAttributeValues[":a0"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "orders"}, in.Key["kname"])
	assert.Equal(t, types.ReturnValueUpdatedNew, in.ReturnValues)
}

func TestUpdateItemMultiple(t *testing.T) {
	api := &fakeAPI{updateOut: &dynamodb.UpdateItemOutput{}}
	e := NewWithAPI(api)
	resp, err := e.UpdateItem(context.Background(), &store.UpdateRequest{
		Table: "counters",
		Key:   store.Item{"kname": store.String("orders")},
		Add:   store.Item{"kval": store.Int(1), "hits": store.Int(2)},
	})
	require.Nil(t, err)
	assert.Nil(t, resp.Attributes)
	assert.Equal(t, "ADD #a0 :a0, #a1 :a1", aws.ToString(api.updateIn.UpdateExpression))
	assert.Equal(t, "hits", api.updateIn.ExpressionAttributeNames["#a0"])
	assert.Equal(t, types.ReturnValueNone, api.updateIn.ReturnValues)
}

func TestUpdateItemErrors(t *testing.T) {
	transportErr := errors.New("ThrottlingException")
	api := &fakeAPI{err: transportErr}
	e := NewWithAPI(api)
	req := &store.UpdateRequest{
		Table: "counters",
		Key:   store.Item{"kname": store.String("orders")},
		Add:   store.Item{"kval": store.Int(1)},
	}
	_, err := e.UpdateItem(context.Background(), req)
	assert.Equal(t, transportErr, err)

	api.err = nil
	api.updateOut = &dynamodb.UpdateItemOutput{
		Attributes: map[string]types.AttributeValue{"kval": &types.AttributeValueMemberB{Value: []byte("1")}},
	}
	_, err = e.UpdateItem(context.Background(), req)
	assert.True(t, errors.Is(err, store.ErrInvalidValue))

	api.updateIn = nil
	_, err = e.UpdateItem(context.Background(), &store.UpdateRequest{Table: "counters"})
	assert.True(t, errors.Is(err, store.ErrInvalidRequest))
	assert.Nil(t, api.updateIn)
}

func TestPutItem(t *testing.T) {
	api := &fakeAPI{}
	e := NewWithAPI(api)
	item := store.Item{
		"kid":      store.String("43"),
		"customer": store.String("Acme"),
		"lines":    store.List(store.Map(map[string]store.AttributeValue{"qty": store.Int(2)})),
		"vip":      store.Bool(true),
		"note":     store.Null(),
	}
	err := e.PutItem(context.Background(), &store.PutRequest{Table: "orders", KeyName: "kid", Item: item, IfNotExists: true})
	require.Nil(t, err)

	in := api.putIn
	assert.Equal(t, "orders", aws.ToString(in.TableName))
	assert.Equal(t, "attribute_not_exists(#k)", aws.ToString(in.ConditionExpression))
	assert.Equal(t, map[string]string{"#k": "kid"}, in.ExpressionAttributeNames)
	back, err := FromItem(in.Item)
	require.Nil(t, err)
	assert.True(t, item.Equal(back))

	err = e.PutItem(context.Background(), &store.PutRequest{Table: "orders", KeyName: "kid", Item: item})
	require.Nil(t, err)
	assert.Nil(t, api.putIn.ConditionExpression)

	condErr := &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	api.err = condErr
	err = e.PutItem(context.Background(), &store.PutRequest{Table: "orders", KeyName: "kid", Item: item, IfNotExists: true})
	assert.True(t, errors.Is(err, store.ErrConditionFailed))
	var target *types.ConditionalCheckFailedException
	assert.True(t, errors.As(err, &target))

	transportErr := errors.New("ResourceNotFoundException")
	api.err = transportErr
	err = e.PutItem(context.Background(), &store.PutRequest{Table: "orders", KeyName: "kid", Item: item})
	assert.Equal(t, transportErr, err)

	err = e.PutItem(context.Background(), &store.PutRequest{Table: "orders", KeyName: "kid", Item: store.Item{"kid": store.String("1"), "bad": {}}})
	assert.True(t, errors.Is(err, store.ErrInvalidValue))
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.NotNil(t, err)
	_, err = New(context.Background(), &Config{})
	assert.NotNil(t, err)

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	e, err := New(context.Background(), &Config{Region: "eu-west-2", Endpoint: "http://127.0.0.1:8000"})
	require.Nil(t, err)
	assert.NotNil(t, e.api)
}
