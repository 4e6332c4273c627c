package nn

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	net, err := New(3, 2, 4, rng)
	require.NoError(t, err)

	data, err := EncodeRecord(net.Record())
	require.NoError(t, err)

	loaded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, net.Record(), loaded.Record())

	for _, in := range [][]float64{{0, 0, 0}, {0.1, 0.5, 0.9}, {1, -1, 2}} {
		want, err := net.FeedForward(in)
		require.NoError(t, err)
		got, err := loaded.FeedForward(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRecordKeepsLayerSizeWithoutHiddenLayers(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	net, err := New(2, 0, 4, rng)
	require.NoError(t, err)

	loaded, err := FromRecord(net.Record())
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.LayerSize())
	assert.Equal(t, 0, loaded.Layers())
}

func TestDecodeSavedFile(t *testing.T) {
	data := []byte(`{
		"inputNeuronAmount": 2,
		"layers": 1,
		"layerSize": 1,
		"neurons": [[{"weights": [1, 1], "bias": 0}]],
		"outputNeuron": {"weights": [0.5], "bias": -1}
	}`)
	net, err := Decode(data)
	require.NoError(t, err)

	got, err := net.FeedForward([]float64{1, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestDecodeMissingFields(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not-json", data: `{`},
		{name: "no-input", data: `{"layers":0,"layerSize":1,"neurons":[],"outputNeuron":{"weights":[1],"bias":0}}`},
		{name: "no-neurons", data: `{"inputNeuronAmount":1,"layers":0,"layerSize":1,"outputNeuron":{"weights":[1],"bias":0}}`},
		{name: "no-output", data: `{"inputNeuronAmount":1,"layers":0,"layerSize":1,"neurons":[]}`},
		{name: "no-bias", data: `{"inputNeuronAmount":1,"layers":0,"layerSize":1,"neurons":[],"outputNeuron":{"weights":[1]}}`},
		{name: "no-weights", data: `{"inputNeuronAmount":1,"layers":1,"layerSize":1,"neurons":[[{"bias":1}]],"outputNeuron":{"weights":[1],"bias":0}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRecord), "got %v", err)
		})
	}
}

func TestFromRecordInconsistentCounts(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{
			name: "layer-count",
			rec: Record{InputNeuronAmount: 1, Layers: 2, LayerSize: 1,
				Neurons:      [][]NeuronRecord{{{Weights: []float64{1}}}},
				OutputNeuron: NeuronRecord{Weights: []float64{1}}},
		},
		{
			name: "layer-size",
			rec: Record{InputNeuronAmount: 1, Layers: 1, LayerSize: 2,
				Neurons:      [][]NeuronRecord{{{Weights: []float64{1}}}},
				OutputNeuron: NeuronRecord{Weights: []float64{1, 1}}},
		},
		{
			name: "weight-count",
			rec: Record{InputNeuronAmount: 2, Layers: 1, LayerSize: 1,
				Neurons:      [][]NeuronRecord{{{Weights: []float64{1}}}},
				OutputNeuron: NeuronRecord{Weights: []float64{1}}},
		},
		{
			name: "output-weights",
			rec: Record{InputNeuronAmount: 2, Layers: 0, LayerSize: 3,
				Neurons:      [][]NeuronRecord{},
				OutputNeuron: NeuronRecord{Weights: []float64{1, 2, 3}}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromRecord(tc.rec)
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}
