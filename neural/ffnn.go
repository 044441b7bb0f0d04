// Package neural provides the feedforward neural network brains carried by agents.
package neural

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Reference network dimensions.
const (
	NumInputs  = 6 // bias, food dist, food bearing, energy, agent dist, noise
	NumHidden  = 8
	NumOutputs = 2 // speed, turn
)

// Mutation perturbations are drawn uniformly from [-MutationStep, MutationStep].
const MutationStep = 0.2

var (
	// ErrInputShapeMismatch is returned when the input vector length differs from the network's input count.
	ErrInputShapeMismatch = errors.New("input shape mismatch")
	// ErrInvalidNetwork is returned when a descriptor's arrays disagree with its shape.
	ErrInvalidNetwork = errors.New("invalid network descriptor")
)

// Shape is the neuron count of each layer.
type Shape struct {
	Inputs  int `json:"inputs"`
	Hidden  int `json:"hidden"`
	Outputs int `json:"outputs"`
}

// DefaultShape is the 6-8-2 layout used by agents.
var DefaultShape = Shape{Inputs: NumInputs, Hidden: NumHidden, Outputs: NumOutputs}

// Network is a two-layer feedforward network with tanh activations.
//
// Weights are stored row-major by source neuron: the weight from input j to
// hidden i lives at WeightsInputHidden[j*HiddenSize+i], and likewise for
// hidden to output. A Network is treated as immutable once built; Mutate
// returns a new descriptor.
type Network struct {
	InputSize           int       `json:"input_size"`
	HiddenSize          int       `json:"hidden_size"`
	OutputSize          int       `json:"output_size"`
	WeightsInputHidden  []float64 `json:"weights_input_hidden"`  // [InputSize * HiddenSize]
	WeightsHiddenOutput []float64 `json:"weights_hidden_output"` // [HiddenSize * OutputSize]
	BiasesHidden        []float64 `json:"biases_hidden"`         // [HiddenSize]
	BiasesOutput        []float64 `json:"biases_output"`         // [OutputSize]
}

// Random creates a network of the given shape with every weight and bias
// drawn uniformly from [-1, 1].
func Random(rng *rand.Rand, shape Shape) *Network {
	nn := &Network{
		InputSize:           shape.Inputs,
		HiddenSize:          shape.Hidden,
		OutputSize:          shape.Outputs,
		WeightsInputHidden:  make([]float64, shape.Inputs*shape.Hidden),
		WeightsHiddenOutput: make([]float64, shape.Hidden*shape.Outputs),
		BiasesHidden:        make([]float64, shape.Hidden),
		BiasesOutput:        make([]float64, shape.Outputs),
	}
	for _, layer := range nn.layers() {
		for i := range layer {
			layer[i] = rng.Float64()*2 - 1
		}
	}
	return nn
}

// Shape returns the layer sizes of the network.
func (nn *Network) Shape() Shape {
	return Shape{Inputs: nn.InputSize, Hidden: nn.HiddenSize, Outputs: nn.OutputSize}
}

// Valid reports whether the weight and bias arrays match the declared shape.
func (nn *Network) Valid() bool {
	return nn.InputSize >= 0 && nn.HiddenSize >= 0 && nn.OutputSize >= 0 &&
		len(nn.WeightsInputHidden) == nn.InputSize*nn.HiddenSize &&
		len(nn.WeightsHiddenOutput) == nn.HiddenSize*nn.OutputSize &&
		len(nn.BiasesHidden) == nn.HiddenSize &&
		len(nn.BiasesOutput) == nn.OutputSize
}

// layers returns the four parameter arrays in initialization order.
func (nn *Network) layers() [4][]float64 {
	return [4][]float64{nn.WeightsInputHidden, nn.WeightsHiddenOutput, nn.BiasesHidden, nn.BiasesOutput}
}

// Clone creates a deep copy of the network.
func (nn *Network) Clone() *Network {
	return &Network{
		InputSize:           nn.InputSize,
		HiddenSize:          nn.HiddenSize,
		OutputSize:          nn.OutputSize,
		WeightsInputHidden:  slices.Clone(nn.WeightsInputHidden),
		WeightsHiddenOutput: slices.Clone(nn.WeightsHiddenOutput),
		BiasesHidden:        slices.Clone(nn.BiasesHidden),
		BiasesOutput:        slices.Clone(nn.BiasesOutput),
	}
}

// Mutate returns a mutated copy of the network. Each weight and bias
// independently, with probability rate, receives an additive perturbation
// drawn uniformly from [-MutationStep, MutationStep]. The receiver is not modified.
func (nn *Network) Mutate(rng *rand.Rand, rate float64) *Network {
	child := nn.Clone()
	for _, layer := range child.layers() {
		for i := range layer {
			if rng.Float64() < rate {
				layer[i] += rng.Float64()*2*MutationStep - MutationStep
			}
		}
	}
	return child
}

// Forward computes the network output, returning an error when the input
// length does not match the network or the descriptor is malformed.
func (nn *Network) Forward(inputs []float64) ([]float64, error) {
	if !nn.Valid() {
		return nil, ErrInvalidNetwork
	}
	if len(inputs) != nn.InputSize {
		return nil, fmt.Errorf("%w: expected %d inputs, got %d", ErrInputShapeMismatch, nn.InputSize, len(inputs))
	}

	hidden := dense(inputs, nn.WeightsInputHidden, nn.BiasesHidden)
	return dense(hidden, nn.WeightsHiddenOutput, nn.BiasesOutput), nil
}

// Predict computes the network output. On malformed input it logs the
// failure and returns a zero vector of the output length so a single bad
// sensor read never halts the simulation.
func (nn *Network) Predict(inputs []float64) []float64 {
	out, err := nn.Forward(inputs)
	if err != nil {
		slog.Error("predict_failed", "error", err, "inputs", len(inputs), "expected", nn.InputSize)
		return make([]float64, max(nn.OutputSize, 0))
	}
	return out
}

// dense applies one fully connected tanh layer. weights is a row-major
// [len(in) x len(bias)] matrix; each output starts from its bias and
// accumulates in[j]*weights[j*len(bias)+i] in source order.
func dense(in, weights, bias []float64) []float64 {
	out := slices.Clone(bias)
	if len(in) > 0 && len(out) > 0 {
		w := blas64.General{Rows: len(in), Cols: len(out), Stride: len(out), Data: weights}
		x := blas64.Vector{N: len(in), Inc: 1, Data: in}
		y := blas64.Vector{N: len(out), Inc: 1, Data: out}
		blas64.Gemv(blas.Trans, 1, w, x, 1, y)
	}
	for i := range out {
		out[i] = math.Tanh(out[i])
	}
	return out
}
