// Package store defines the contract between the id allocator and the key-value engines that hold counters and documents
package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// AttributeValue is the tagged wire representation of a stored value,
// exactly one of the fields is set, e.g. {"N":"42"} or {"S":"Acme"}
type AttributeValue struct {
	S    *string                   `json:"S,omitempty"`
	N    *string                   `json:"N,omitempty"`
	BOOL *bool                     `json:"BOOL,omitempty"`
	NULL bool                      `json:"NULL,omitempty"`
	L    []AttributeValue          `json:"L"`
	M    map[string]AttributeValue `json:"M"`
}

// Item is one stored record
type Item map[string]AttributeValue

// String create a string value
func String(s string) AttributeValue {
	return AttributeValue{S: &s}
}

// Number create a number value from its decimal representation
func Number(n string) AttributeValue {
	return AttributeValue{N: &n}
}

// Int create a number value
func Int(i int64) AttributeValue {
	return Number(strconv.FormatInt(i, 10))
}

// Bool create a bool value
func Bool(b bool) AttributeValue {
	return AttributeValue{BOOL: &b}
}

// Null create a null value
func Null() AttributeValue {
	return AttributeValue{NULL: true}
}

// List create a list value,a nil list is stored as an empty list
func List(values ...AttributeValue) AttributeValue {
	if values == nil {
		values = []AttributeValue{}
	}
	return AttributeValue{L: values}
}

// Map create a map value,a nil map is stored as an empty map
func Map(m map[string]AttributeValue) AttributeValue {
	if m == nil {
		m = map[string]AttributeValue{}
	}
	return AttributeValue{M: m}
}

// Type return the tag of the value: S,N,BOOL,NULL,L,M or "" for the zero value
func (p AttributeValue) Type() string {
	switch {
	case p.S != nil:
		return "S"
	case p.N != nil:
		return "N"
	case p.BOOL != nil:
		return "BOOL"
	case p.NULL:
		return "NULL"
	case p.L != nil:
		return "L"
	case p.M != nil:
		return "M"
	}
	return ""
}

// MarshalJSON emit only the set tag,e.g. {"S":"Acme"},an empty value is {}
func (p AttributeValue) MarshalJSON() ([]byte, error) {
	var v interface{}
	typ := p.Type()
	switch typ {
	case "S":
		v = *p.S
	case "N":
		v = *p.N
	case "BOOL":
		v = *p.BOOL
	case "NULL":
		v = true
	case "L":
		v = p.L
	case "M":
		v = p.M
	default:
		return []byte("{}"), nil
	}
	return docJSON.Marshal(map[string]interface{}{typ: v})
}

// Int64 parse the N value as int64
func (p AttributeValue) Int64() (int64, error) {
	if p.N == nil {
		return 0, fmt.Errorf("%w: expect N,got %q", ErrInvalidValue, p.Type())
	}
	return strconv.ParseInt(*p.N, 10, 64)
}

// Str return the S value
func (p AttributeValue) Str() (string, bool) {
	if p.S == nil {
		return "", false
	}
	return *p.S, true
}

// Equal reports whether p and o hold the same tagged value
func (p AttributeValue) Equal(o AttributeValue) bool {
	if p.Type() != o.Type() {
		return false
	}
	switch p.Type() {
	case "S":
		return *p.S == *o.S
	case "N":
		return *p.N == *o.N
	case "BOOL":
		return *p.BOOL == *o.BOOL
	case "L":
		if len(p.L) != len(o.L) {
			return false
		}
		for i := range p.L {
			if !p.L[i].Equal(o.L[i]) {
				return false
			}
		}
		return true
	case "M":
		return Item(p.M).Equal(Item(o.M))
	}
	return true
}

func (p AttributeValue) String() string {
	switch p.Type() {
	case "S":
		return fmt.Sprintf("{S:%q}", *p.S)
	case "N":
		return fmt.Sprintf("{N:%q}", *p.N)
	case "BOOL":
		return fmt.Sprintf("{BOOL:%t}", *p.BOOL)
	case "NULL":
		return "{NULL:true}"
	case "L":
		strs := make([]string, 0, len(p.L))
		for _, v := range p.L {
			strs = append(strs, v.String())
		}
		return "{L:[" + strings.Join(strs, ",") + "]}"
	case "M":
		return "{M:" + Item(p.M).String() + "}"
	}
	return "{}"
}

// Clone deep copy the item
func (p Item) Clone() Item {
	if p == nil {
		return nil
	}
	c := make(Item, len(p))
	for k, v := range p {
		c[k] = v.clone()
	}
	return c
}

func (p AttributeValue) clone() AttributeValue {
	switch p.Type() {
	case "S":
		return String(*p.S)
	case "N":
		return Number(*p.N)
	case "BOOL":
		return Bool(*p.BOOL)
	case "L":
		l := make([]AttributeValue, len(p.L))
		for i, v := range p.L {
			l[i] = v.clone()
		}
		return AttributeValue{L: l}
	case "M":
		return AttributeValue{M: Item(p.M).Clone()}
	}
	return p
}

// Equal reports whether two items hold the same attributes
func (p Item) Equal(o Item) bool {
	if len(p) != len(o) {
		return false
	}
	for k, v := range p {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Names return the sorted attribute names
func (p Item) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (p Item) String() string {
	strs := make([]string, 0, len(p))
	for _, k := range p.Names() {
		strs = append(strs, k+":"+p[k].String())
	}
	return "{" + strings.Join(strs, ",") + "}"
}
