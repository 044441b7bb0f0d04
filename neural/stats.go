package neural

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WeightStats summarizes a genome for display and external analysis.
type WeightStats struct {
	InputHiddenMean  float64 `json:"input_hidden_mean"`
	InputHiddenStd   float64 `json:"input_hidden_std"`
	InputHiddenMin   float64 `json:"input_hidden_min"`
	InputHiddenMax   float64 `json:"input_hidden_max"`
	HiddenOutputMean float64 `json:"hidden_output_mean"`
	HiddenBiasSum    float64 `json:"hidden_bias_sum"` // "bias trend"
	OutputBiasSum    float64 `json:"output_bias_sum"`
}

// WeightStats computes aggregate statistics over the network parameters.
// Empty layers report zeros.
func (nn *Network) WeightStats() WeightStats {
	var ws WeightStats

	if len(nn.WeightsInputHidden) > 0 {
		ws.InputHiddenMean = stat.Mean(nn.WeightsInputHidden, nil)
		ws.InputHiddenMin = floats.Min(nn.WeightsInputHidden)
		ws.InputHiddenMax = floats.Max(nn.WeightsInputHidden)
	}
	if len(nn.WeightsInputHidden) > 1 {
		ws.InputHiddenStd = stat.StdDev(nn.WeightsInputHidden, nil)
	}
	if len(nn.WeightsHiddenOutput) > 0 {
		ws.HiddenOutputMean = stat.Mean(nn.WeightsHiddenOutput, nil)
	}
	ws.HiddenBiasSum = floats.Sum(nn.BiasesHidden)
	ws.OutputBiasSum = floats.Sum(nn.BiasesOutput)

	return ws
}
