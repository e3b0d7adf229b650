package common

import "encoding/binary"

// MurmurHash32 MurmurHash2的32位版本,seed为0时与Nginx Lua的实现兼容
func MurmurHash32(data []byte, seed uint32) uint32 {
	const m uint32 = 0x5bd1e995
	const r = 24

	h := seed ^ uint32(len(data))
	for len(data) >= 4 {
		k := binary.LittleEndian.Uint32(data)
		k *= m
		k ^= k >> r
		k *= m

		h *= m
		h ^= k
		data = data[4:]
	}

	switch len(data) {
	case 3:
		h ^= uint32(data[2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[0])
		h *= m
	}

	h ^= h >> 13
	h *= m
	h ^= h >> 15
	return h
}
