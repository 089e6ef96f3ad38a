package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForChannel(t *testing.T) {
	t.Parallel()

	ch := make(chan struct{})
	close(ch)
	WaitForChannel(t, ch, ShortTestTimeout, "closed channel should be received")
}

func TestWaitWithTimeout(t *testing.T) {
	t.Parallel()

	ch := make(chan struct{})
	assert.False(t, WaitWithTimeout(ch, 10*ShortTestTimeout/1000))

	close(ch)
	assert.True(t, WaitWithTimeout(ch, ShortTestTimeout))
}

func TestWriteTables(t *testing.T) {
	t.Parallel()

	obs, species := WriteTables(t, "a,b\n", "c,d\n")
	data, err := os.ReadFile(obs)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	data, err = os.ReadFile(species)
	require.NoError(t, err)
	assert.Equal(t, "c,d\n", string(data))
}
