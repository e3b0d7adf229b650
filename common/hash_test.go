package common

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleMurmurHash32() {
	for _, seed := range []uint32{10, 11, 0x1234ABCD} {
		fmt.Println(MurmurHash32([]byte("123456"), seed))
	}
	// Output:
	// 3957618599
	// 1027164520
	// 4286601330
}

func TestMurmurHash32(t *testing.T) {
	assert.Equal(t, uint32(2519872436), MurmurHash32(nil, 10))
	assert.Equal(t, uint32(0), MurmurHash32([]byte(""), 0))
	assert.Equal(t, uint32(2438402682), MurmurHash32([]byte("1234567"), 0))
	assert.Equal(t, MurmurHash32([]byte("orders"), 0), MurmurHash32([]byte("orders"), 0))
}
