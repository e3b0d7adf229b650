package store

import (
	"errors"

	"github.com/ugorji/go/codec"
)

var msgpackHandle = &codec.MsgpackHandle{}

// EncodeItem encode item to bytes use msgpack
func EncodeItem(item Item) (bytes []byte, err error) {
	enc := codec.NewEncoderBytes(&bytes, msgpackHandle)
	err = enc.Encode(item)
	return
}

// DecodeItem decode bytes to an item use msgpack
func DecodeItem(bytes []byte) (item Item, err error) {
	if len(bytes) == 0 {
		return nil, errors.New("nil bytes to decode")
	}
	dec := codec.NewDecoderBytes(bytes, msgpackHandle)
	err = dec.Decode(&item)
	return
}

// EncodeValue encode one attribute value use msgpack
func EncodeValue(v AttributeValue) (bytes []byte, err error) {
	enc := codec.NewEncoderBytes(&bytes, msgpackHandle)
	err = enc.Encode(v)
	return
}

// DecodeValue decode one attribute value use msgpack
func DecodeValue(bytes []byte) (v AttributeValue, err error) {
	if len(bytes) == 0 {
		return v, errors.New("nil bytes to decode")
	}
	dec := codec.NewDecoderBytes(bytes, msgpackHandle)
	err = dec.Decode(&v)
	return
}
