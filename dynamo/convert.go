package dynamo

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/d0ngw/idgen/store"
)

// ToAttributeValue convert a store value to the SDK representation
func ToAttributeValue(av store.AttributeValue) (types.AttributeValue, error) {
	switch av.Type() {
	case "S":
		return &types.AttributeValueMemberS{Value: *av.S}, nil
	case "N":
		return &types.AttributeValueMemberN{Value: *av.N}, nil
	case "BOOL":
		return &types.AttributeValueMemberBOOL{Value: *av.BOOL}, nil
	case "NULL":
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case "L":
		l := make([]types.AttributeValue, 0, len(av.L))
		for _, v := range av.L {
			e, err := ToAttributeValue(v)
			if err != nil {
				return nil, err
			}
			l = append(l, e)
		}
		return &types.AttributeValueMemberL{Value: l}, nil
	case "M":
		m, err := ToItem(av.M)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	}
	return nil, fmt.Errorf("%w: empty attribute value", store.ErrInvalidValue)
}

// ToItem convert a store item to the SDK representation
func ToItem(item store.Item) (map[string]types.AttributeValue, error) {
	m := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		av, err := ToAttributeValue(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", k, err)
		}
		m[k] = av
	}
	return m, nil
}

// FromAttributeValue convert an SDK value to the store representation,sets and binaries are not supported
func FromAttributeValue(av types.AttributeValue) (store.AttributeValue, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return store.String(v.Value), nil
	case *types.AttributeValueMemberN:
		return store.Number(v.Value), nil
	case *types.AttributeValueMemberBOOL:
		return store.Bool(v.Value), nil
	case *types.AttributeValueMemberNULL:
		return store.Null(), nil
	case *types.AttributeValueMemberL:
		l := make([]store.AttributeValue, 0, len(v.Value))
		for _, e := range v.Value {
			sv, err := FromAttributeValue(e)
			if err != nil {
				return store.AttributeValue{}, err
			}
			l = append(l, sv)
		}
		return store.List(l...), nil
	case *types.AttributeValueMemberM:
		m, err := FromItem(v.Value)
		if err != nil {
			return store.AttributeValue{}, err
		}
		return store.Map(m), nil
	}
	return store.AttributeValue{}, fmt.Errorf("%w: unsupported dynamodb type %T", store.ErrInvalidValue, av)
}

// FromItem convert an SDK item to the store representation
func FromItem(m map[string]types.AttributeValue) (store.Item, error) {
	item := make(store.Item, len(m))
	for k, v := range m {
		sv, err := FromAttributeValue(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", k, err)
		}
		item[k] = sv
	}
	return item, nil
}
