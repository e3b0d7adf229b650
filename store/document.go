package store

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Document is a caller supplied record,values may be anything json-iterator can marshal
type Document map[string]interface{}

var docJSON = jsoniter.Config{
	EscapeHTML:  false,
	SortMapKeys: true,
	UseNumber:   true,
}.Froze()

// MarshalDocument convert doc to an Item.
// Values are normalised through JSON,so structs follow their json tags and numbers keep their exact decimal text.
func MarshalDocument(doc Document) (Item, error) {
	item := Item{}
	if len(doc) == 0 {
		return item, nil
	}
	data, err := docJSON.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var generic map[string]interface{}
	if err = docJSON.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("normalise document: %w", err)
	}
	for k, v := range generic {
		av, err := FromInterface(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		item[k] = av
	}
	return item, nil
}

// FromInterface convert a JSON decoded value to an AttributeValue
func FromInterface(v interface{}) (AttributeValue, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(string(t)), nil
	case jsoniter.Number:
		return Number(string(t)), nil
	case []interface{}:
		l := make([]AttributeValue, 0, len(t))
		for _, e := range t {
			av, err := FromInterface(e)
			if err != nil {
				return AttributeValue{}, err
			}
			l = append(l, av)
		}
		return List(l...), nil
	case map[string]interface{}:
		m := make(map[string]AttributeValue, len(t))
		for k, e := range t {
			av, err := FromInterface(e)
			if err != nil {
				return AttributeValue{}, err
			}
			m[k] = av
		}
		return Map(m), nil
	}
	return AttributeValue{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, v)
}

// ToInterface convert an AttributeValue to plain values, numbers become json.Number
func ToInterface(av AttributeValue) interface{} {
	switch av.Type() {
	case "S":
		return *av.S
	case "N":
		return json.Number(*av.N)
	case "BOOL":
		return *av.BOOL
	case "L":
		l := make([]interface{}, 0, len(av.L))
		for _, v := range av.L {
			l = append(l, ToInterface(v))
		}
		return l
	case "M":
		return UnmarshalItem(av.M)
	}
	return nil
}

// UnmarshalItem convert an item back to a Document
func UnmarshalItem(item Item) Document {
	doc := make(Document, len(item))
	for k, v := range item {
		doc[k] = ToInterface(v)
	}
	return doc
}

// MarshalJSON encode v with the document json config
func MarshalJSON(v interface{}) ([]byte, error) {
	return docJSON.Marshal(v)
}
