package inpaint

// CeilModulo rounds x up to the next multiple of mod.
func CeilModulo(x, mod int) int {
	if x%mod == 0 {
		return x
	}
	return (x/mod + 1) * mod
}

// PadToModulo pads a CHW tensor on the bottom and right so both
// spatial dimensions are multiples of mod, mirroring edge values.
// Used for the variable-size inpainting path, where the model requires
// dimensions divisible by its downsampling factor.
func PadToModulo(data []float32, channels, height, width, mod int) ([]float32, int, int) {
	outH := CeilModulo(height, mod)
	outW := CeilModulo(width, mod)
	if outH == height && outW == width {
		return data, height, width
	}

	out := make([]float32, channels*outH*outW)
	for c := 0; c < channels; c++ {
		for y := 0; y < outH; y++ {
			srcY := reflectIndex(y, height)
			for x := 0; x < outW; x++ {
				srcX := reflectIndex(x, width)
				out[c*outH*outW+y*outW+x] = data[c*height*width+srcY*width+srcX]
			}
		}
	}
	return out, outH, outW
}

// reflectIndex maps an out-of-range index back into [0,size) by
// mirroring across the last element (symmetric padding).
func reflectIndex(i, size int) int {
	if i < size {
		return i
	}
	r := 2*size - 1 - i
	if r < 0 {
		r = 0
	}
	return r
}
