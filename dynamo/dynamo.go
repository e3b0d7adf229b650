// Package dynamo implements store.Engine over AWS DynamoDB
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/d0ngw/idgen/store"
)

// API is the part of *dynamodb.Client used by Engine
type API interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Config DynamoDB配置
type Config struct {
	Region   string `yaml:"region"`   //AWS region,如eu-west-2
	Endpoint string `yaml:"endpoint"` //可选,如DynamoDB Local的地址
}

// Parse implements common.Configurer
func (p *Config) Parse() error {
	if p.Region == "" {
		return errors.New("dynamo: need region")
	}
	return nil
}

// Engine implements store.Engine with DynamoDB UpdateItem/PutItem
type Engine struct {
	api API
}

// New create an Engine from the default AWS configuration chain and conf.
// No request is sent,credentials are resolved on the first call.
func New(ctx context.Context, conf *Config) (*Engine, error) {
	if conf == nil {
		return nil, errors.New("dynamo: nil config")
	}
	if err := conf.Parse(); err != nil {
		return nil, err
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(conf.Region))
	if err != nil {
		return nil, fmt.Errorf("dynamo: load aws config: %w", err)
	}
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
	})
	return NewWithAPI(client), nil
}

// NewWithAPI create an Engine over an existing client
func NewWithAPI(api API) *Engine {
	return &Engine{api: api}
}

// UpdateItem implements store.Engine.UpdateItem with an `ADD` update expression
func (p *Engine) UpdateItem(ctx context.Context, req *store.UpdateRequest) (*store.UpdateResponse, error) {
	if _, _, err := req.Validate(); err != nil {
		return nil, err
	}
	key, err := ToItem(req.Key)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	actions := make([]string, 0, len(req.Add))
	for i, name := range req.Add.Names() {
		n, v := fmt.Sprintf("#a%d", i), fmt.Sprintf(":a%d", i)
		delta, err := ToAttributeValue(req.Add[name])
		if err != nil {
			return nil, err
		}
		names[n] = name
		values[v] = delta
		actions = append(actions, n+" "+v)
	}

	returnValues := types.ReturnValueNone
	if req.ReturnValues == store.ReturnUpdatedNew {
		returnValues = types.ReturnValueUpdatedNew
	}

	out, err := p.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(req.Table),
		Key:                       key,
		UpdateExpression:          aws.String("ADD " + strings.Join(actions, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              returnValues,
	})
	if err != nil {
		return nil, err
	}
	resp := &store.UpdateResponse{}
	if out != nil && out.Attributes != nil {
		if resp.Attributes, err = FromItem(out.Attributes); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// PutItem implements store.Engine.PutItem.
// A failed attribute_not_exists condition is returned wrapping both store.ErrConditionFailed and the SDK error.
func (p *Engine) PutItem(ctx context.Context, req *store.PutRequest) error {
	if _, err := req.Validate(); err != nil {
		return err
	}
	item, err := ToItem(req.Item)
	if err != nil {
		return err
	}
	input := &dynamodb.PutItemInput{
		TableName: aws.String(req.Table),
		Item:      item,
	}
	if req.IfNotExists {
		input.ConditionExpression = aws.String("attribute_not_exists(#k)")
		input.ExpressionAttributeNames = map[string]string{"#k": req.KeyName}
	}
	_, err = p.api.PutItem(ctx, input)
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return fmt.Errorf("%w: %w", store.ErrConditionFailed, err)
	}
	return err
}
