package store

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `json:"city"`
	Zip  string `json:"zip,omitempty"`
}

func TestMarshalDocument(t *testing.T) {
	item, err := MarshalDocument(Document{
		"customer": "Acme",
		"total":    12.5,
		"big":      int64(9007199254740993),
		"vip":      true,
		"note":     nil,
		"tags":     []string{"a", "b"},
		"addr":     address{City: "Berne"},
	})
	require.Nil(t, err)

	expect := Item{
		"customer": String("Acme"),
		"total":    Number("12.5"),
		"big":      Number("9007199254740993"),
		"vip":      Bool(true),
		"note":     Null(),
		"tags":     List(String("a"), String("b")),
		"addr":     Map(map[string]AttributeValue{"city": String("Berne")}),
	}
	assert.True(t, expect.Equal(item), "got %s", item)

	doc := UnmarshalItem(item)
	assert.Equal(t, "Acme", doc["customer"])
	assert.Equal(t, json.Number("9007199254740993"), doc["big"])
	assert.Equal(t, []interface{}{"a", "b"}, doc["tags"])
	assert.Equal(t, Document{"city": "Berne"}, doc["addr"])
	assert.Nil(t, doc["note"])

	empty, err := MarshalDocument(nil)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(empty))

	_, err = MarshalDocument(Document{"nan": math.NaN()})
	assert.NotNil(t, err)
}

func TestItemCodec(t *testing.T) {
	item := Item{
		"kid":  String("43"),
		"tags": List(String("a"), Int(2)),
		"addr": Map(map[string]AttributeValue{"city": String("Berne")}),
		"vip":  Bool(false),
		"note": Null(),
	}
	data, err := EncodeItem(item)
	require.Nil(t, err)
	decoded, err := DecodeItem(data)
	require.Nil(t, err)
	assert.True(t, item.Equal(decoded), "got %s", decoded)

	_, err = DecodeItem(nil)
	assert.NotNil(t, err)

	vdata, err := EncodeValue(Int(42))
	require.Nil(t, err)
	v, err := DecodeValue(vdata)
	require.Nil(t, err)
	assert.True(t, Int(42).Equal(v))
}
