package nn

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedRecord is wrapped by every decode failure of a persisted record.
var ErrMalformedRecord = errors.New("malformed record")

// NeuronRecord is the persisted form of a neuron.
type NeuronRecord struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Record is the structural record of a network. Field names follow the
// saved-file format used by existing network files.
type Record struct {
	InputNeuronAmount int              `json:"inputNeuronAmount"`
	Layers            int              `json:"layers"`
	LayerSize         int              `json:"layerSize"`
	Neurons           [][]NeuronRecord `json:"neurons"`
	OutputNeuron      NeuronRecord     `json:"outputNeuron"`
}

// Record captures the network's shape, weights and biases.
func (net *Network) Record() Record {
	rec := Record{
		InputNeuronAmount: net.inputWidth,
		Layers:            net.layers,
		LayerSize:         net.layerSize,
		Neurons:           make([][]NeuronRecord, len(net.hidden)),
		OutputNeuron:      neuronRecord(&net.output),
	}
	for i, layer := range net.hidden {
		rec.Neurons[i] = make([]NeuronRecord, len(layer))
		for j := range layer {
			rec.Neurons[i][j] = neuronRecord(&layer[j])
		}
	}
	return rec
}

func neuronRecord(n *Neuron) NeuronRecord {
	weights := make([]float64, len(n.Weights))
	copy(weights, n.Weights)
	return NeuronRecord{Weights: weights, Bias: n.Bias}
}

// FromRecord rebuilds a network from its record without re-randomizing
// anything. Inconsistent layer or neuron counts yield a *ConfigurationError.
func FromRecord(rec Record) (*Network, error) {
	if rec.Layers != len(rec.Neurons) {
		return nil, configErrorf("layers", "record declares %d layers but holds %d", rec.Layers, len(rec.Neurons))
	}
	if err := validateShape(rec.InputNeuronAmount, rec.Layers, rec.LayerSize); err != nil {
		return nil, err
	}

	hidden := make([][]Neuron, len(rec.Neurons))
	for i, layer := range rec.Neurons {
		if len(layer) != rec.LayerSize {
			return nil, configErrorf("neurons", "layer %d holds %d neurons, layerSize is %d", i, len(layer), rec.LayerSize)
		}
		hidden[i] = make([]Neuron, len(layer))
		for j, n := range layer {
			hidden[i][j] = Neuron{Weights: n.Weights, Bias: n.Bias, Activation: LeakyReLU}
		}
	}
	output := Neuron{Weights: rec.OutputNeuron.Weights, Bias: rec.OutputNeuron.Bias, Activation: Linear}

	net, err := NewFromNeurons(rec.InputNeuronAmount, hidden, output)
	if err != nil {
		return nil, err
	}
	// layerSize survives a round trip even when there are no hidden layers
	net.layerSize = rec.LayerSize
	return net, nil
}

// rawRecord mirrors Record with pointers so missing fields can be told apart
// from zero values.
type rawRecord struct {
	InputNeuronAmount *int           `json:"inputNeuronAmount"`
	Layers            *int           `json:"layers"`
	LayerSize         *int           `json:"layerSize"`
	Neurons           *[][]rawNeuron `json:"neurons"`
	OutputNeuron      *rawNeuron     `json:"outputNeuron"`
}

type rawNeuron struct {
	Weights *[]float64 `json:"weights"`
	Bias    *float64   `json:"bias"`
}

func (n *rawNeuron) record(where string) (NeuronRecord, error) {
	if n.Weights == nil {
		return NeuronRecord{}, fmt.Errorf("%w: %s: missing weights", ErrMalformedRecord, where)
	}
	if n.Bias == nil {
		return NeuronRecord{}, fmt.Errorf("%w: %s: missing bias", ErrMalformedRecord, where)
	}
	return NeuronRecord{Weights: *n.Weights, Bias: *n.Bias}, nil
}

// EncodeRecord serializes a network record as JSON.
func EncodeRecord(rec Record) ([]byte, error) {
	return json.Marshal(rec)
}

// DecodeRecord parses a JSON network record, failing fast on missing fields.
// It does not check shape consistency; FromRecord does that.
func DecodeRecord(data []byte) (Record, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	switch {
	case raw.InputNeuronAmount == nil:
		return Record{}, fmt.Errorf("%w: missing inputNeuronAmount", ErrMalformedRecord)
	case raw.Layers == nil:
		return Record{}, fmt.Errorf("%w: missing layers", ErrMalformedRecord)
	case raw.LayerSize == nil:
		return Record{}, fmt.Errorf("%w: missing layerSize", ErrMalformedRecord)
	case raw.Neurons == nil:
		return Record{}, fmt.Errorf("%w: missing neurons", ErrMalformedRecord)
	case raw.OutputNeuron == nil:
		return Record{}, fmt.Errorf("%w: missing outputNeuron", ErrMalformedRecord)
	}

	rec := Record{
		InputNeuronAmount: *raw.InputNeuronAmount,
		Layers:            *raw.Layers,
		LayerSize:         *raw.LayerSize,
		Neurons:           make([][]NeuronRecord, len(*raw.Neurons)),
	}
	for i, layer := range *raw.Neurons {
		rec.Neurons[i] = make([]NeuronRecord, len(layer))
		for j := range layer {
			n, err := layer[j].record(fmt.Sprintf("neurons[%d][%d]", i, j))
			if err != nil {
				return Record{}, err
			}
			rec.Neurons[i][j] = n
		}
	}
	out, err := raw.OutputNeuron.record("outputNeuron")
	if err != nil {
		return Record{}, err
	}
	rec.OutputNeuron = out
	return rec, nil
}

// Decode parses and rebuilds a network in one step.
func Decode(data []byte) (*Network, error) {
	rec, err := DecodeRecord(data)
	if err != nil {
		return nil, err
	}
	return FromRecord(rec)
}
