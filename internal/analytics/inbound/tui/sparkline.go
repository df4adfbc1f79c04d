package tui

// RenderSparkline creates a simple ASCII sparkline from values using Unicode block characters
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	// Unicode block characters from lowest to highest
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	result := make([]rune, len(values))
	if hi == lo {
		for i := range result {
			result[i] = blocks[len(blocks)/2]
		}
		return string(result)
	}

	for i, v := range values {
		idx := int((v - lo) / (hi - lo) * float64(len(blocks)-1))
		result[i] = blocks[min(idx, len(blocks)-1)]
	}
	return string(result)
}

// Downsample sums adjacent values so the result has at most width entries.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}

	out := make([]float64, width)
	for i, v := range values {
		out[i*width/len(values)] += v
	}
	return out
}
