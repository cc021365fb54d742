package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	Name     string    `json:"name"`
	Features []float64 `json:"features"`
	Label    *string   `json:"label,omitempty"`
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, ok := ByName(name)
			require.True(t, ok)
			assert.Equal(t, name, c.Name())
		})
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs(t *testing.T) {
	label := "pos"
	in := point{Name: "a", Features: []float64{0.1, 1e-300, 3.141592653589793}, Label: &label}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			b, err := c.Marshal(in)
			require.NoError(t, err)

			var out point
			require.NoError(t, c.Unmarshal(b, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestCodecsAreInterchangeable(t *testing.T) {
	in := point{Name: "b", Features: []float64{1, 2}}

	b := MustMarshal(JSON{}, in)

	var out point
	require.NoError(t, GoJSON{}.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestMustMarshal(t *testing.T) {
	assert.NotEmpty(t, MustMarshal(nil, point{Name: "x"}))
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}
