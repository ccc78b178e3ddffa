package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	src     io.Reader
	playing bool
	closed  int
}

func (p *fakePlayer) Play()  { p.playing = true }
func (p *fakePlayer) Pause() { p.playing = false }

func (p *fakePlayer) Close() error {
	p.closed++
	return nil
}

func fakeTone() (*Tone, *[]*fakePlayer) {
	var made []*fakePlayer
	t := NewTone(nil)
	t.newPlayer = func(r io.Reader) (player, error) {
		p := &fakePlayer{src: r}
		made = append(made, p)
		return p, nil
	}
	return t, &made
}

func TestSineShape(t *testing.T) {
	// 4 samples per cycle: 0, peak, 0, trough.
	s := NewSine(1, 4)
	buf := make([]byte, 4*bytesPerFrame)
	n, err := s.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)

	sample := func(i int) int16 { return int16(binary.LittleEndian.Uint16(buf[i*bytesPerFrame:])) }
	right := func(i int) int16 { return int16(binary.LittleEndian.Uint16(buf[i*bytesPerFrame+2:])) }

	assert.Equal(t, int16(0), sample(0))
	assert.Equal(t, int16(math.MaxInt16), sample(1))
	assert.InDelta(t, 0, float64(sample(2)), 1)
	assert.Equal(t, int16(-math.MaxInt16), sample(3))
	for i := 0; i < 4; i++ {
		assert.Equal(t, sample(i), right(i))
	}
}

func TestSineReadsWholeFrames(t *testing.T) {
	s := NewSine(4, SampleRate)
	n, err := s.Read(make([]byte, 7))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestStartStop(t *testing.T) {
	tone, made := fakeTone()
	assert.False(t, tone.Playing())

	require.NoError(t, tone.StartTone(4))
	require.Len(t, *made, 1)
	assert.True(t, (*made)[0].playing)
	assert.True(t, tone.Playing())

	require.NoError(t, tone.StartTone(8))
	require.Len(t, *made, 2)
	assert.False(t, (*made)[0].playing, "previous tone is replaced")
	assert.Equal(t, 1, (*made)[0].closed)
	assert.True(t, (*made)[1].playing)
	assert.Zero(t, (*made)[1].closed)

	tone.StopTone()
	tone.StopTone()
	assert.False(t, (*made)[1].playing)
	assert.Equal(t, 1, (*made)[1].closed, "each player is released once")
	assert.False(t, tone.Playing())
}

func TestStartToneErrors(t *testing.T) {
	tone, made := fakeTone()
	assert.ErrorIs(t, tone.StartTone(0), ErrBadFrequency)
	assert.ErrorIs(t, tone.StartTone(math.NaN()), ErrBadFrequency)
	assert.Empty(t, *made)

	boom := errors.New("no device")
	tone.newPlayer = func(io.Reader) (player, error) { return nil, boom }
	assert.ErrorIs(t, tone.StartTone(4), boom)
	assert.False(t, tone.Playing())
}
