package peerlist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := NewSet("b", "a", "b")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"b", "a"}, s.Addresses())

	assert.True(t, s.Add("c"))
	assert.False(t, s.Add("a"))
	assert.Equal(t, []string{"b", "a", "c"}, s.Addresses())

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.False(t, s.Has("a"))
	assert.True(t, s.Has("b"))
	assert.Equal(t, []string{"b", "c"}, s.Addresses())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Addresses())
	assert.True(t, s.Add("b"))
}

func TestSet_AddressesIsCopy(t *testing.T) {
	s := NewSet("a")
	addrs := s.Addresses()
	addrs[0] = "mutated"
	assert.Equal(t, []string{"a"}, s.Addresses())
}

func TestParseSet(t *testing.T) {
	s := ParseSet([]byte("192.168.1.5\n\n10.0.0.2\n192.168.1.5\n10.0.0.3"))
	assert.Equal(t, []string{"192.168.1.5", "10.0.0.2", "10.0.0.3"}, s.Addresses())

	s = ParseSet(nil)
	assert.Equal(t, 0, s.Len())

	// hand edited CRLF files
	s = ParseSet([]byte("10.0.0.1\r\n10.0.0.2\r\n10.0.0.1\n"))
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, s.Addresses())
}

func TestParseSet_LongLines(t *testing.T) {
	long := strings.Repeat("a", 70*1024)
	data, err := NewSet("10.0.0.1", long).MarshalText()
	require.NoError(t, err)

	s := ParseSet(data)
	assert.Equal(t, []string{"10.0.0.1", long}, s.Addresses())
}

func TestSet_MarshalText(t *testing.T) {
	data, err := NewSet("192.168.1.5", "10.0.0.2").MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.5\n10.0.0.2\n", string(data))

	data, err = NewSet().MarshalText()
	require.NoError(t, err)
	assert.Empty(t, data)
}
