package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeFrame(l, r int16) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b[0:2], uint16(l))
	binary.LittleEndian.PutUint16(b[2:4], uint16(r))
	return b
}

func TestFramerAssemblesFullChunk(t *testing.T) {
	f := NewFramer(2)
	for i := 0; i < AudioChunk; i++ {
		n, err := f.Write(encodeFrame(100, -100))
		require.NoError(t, err)
		require.Equal(t, 4, n)
	}

	pcm, mono, err := f.NextChunk()
	require.NoError(t, err)
	require.Len(t, mono, AudioChunk)
	require.Len(t, pcm, AudioChunk*Channels)
	require.InDelta(t, 0, mono[0], 1e-9)
	require.Equal(t, int16(100), pcm[0])
	require.Equal(t, int16(-100), pcm[1])
}

func TestFramerDropsNewestOnOverflowWithoutError(t *testing.T) {
	f := NewFramer(1)
	huge := make([]byte, f.frameSize*4)
	n, err := f.Write(huge)
	require.NoError(t, err)
	require.Equal(t, len(huge), n)
}
