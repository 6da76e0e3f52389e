package audioproc

import "math"

// Resampler parameters, chosen to match the sinc-interpolation resampler
// original_source configures via rubato::SincFixedIn: a 256-tap windowed
// sinc kernel, 0.95 relative cutoff, 256x oversampling for sub-sample phase
// resolution, a Blackman-Harris window, and linear interpolation between
// adjacent oversampled phases.
const (
	sincLen            = 256
	cutoffRatio        = 0.95
	oversamplingFactor = 256
	maxRelativeOutput  = 2.0
)

// sincFilterBank holds one windowed-sinc kernel per oversampled phase,
// built once per resampling ratio.
type sincFilterBank struct {
	taps   [][]float64
	cutoff float64
}

func blackmanHarris2(x float64) float64 {
	// Two-term variant of the Blackman-Harris window, matching the shape of
	// rubato's WindowFunction::BlackmanHarris2: a slightly narrower
	// main-lobe window than the classic 4-term Blackman-Harris.
	const a0, a1 = 0.62, 0.38
	return a0 - a1*math.Cos(2*math.Pi*x)
}

func buildSincFilterBank(cutoff float64) *sincFilterBank {
	bank := &sincFilterBank{cutoff: cutoff}
	bank.taps = make([][]float64, oversamplingFactor+1)

	half := sincLen / 2
	for phase := 0; phase <= oversamplingFactor; phase++ {
		frac := float64(phase) / float64(oversamplingFactor)
		taps := make([]float64, sincLen)
		var sum float64
		for k := 0; k < sincLen; k++ {
			// Center the kernel on the fractional sample offset.
			t := float64(k-half) - frac
			taps[k] = sincValue(cutoff*t) * cutoff * blackmanHarris2(float64(k)/float64(sincLen-1))
			sum += taps[k]
		}
		if sum != 0 {
			for k := range taps {
				taps[k] /= sum
			}
		}
		bank.taps[phase] = taps
	}
	return bank
}

func sincValue(x float64) float64 {
	if x == 0 {
		return 1
	}
	piX := math.Pi * x
	return math.Sin(piX) / piX
}

// mixDownToMono averages interleaved multi-channel frames into mono,
// matching original_source's resample() channel mixdown.
func mixDownToMono(input []float32, channels int) []float32 {
	if channels <= 1 {
		return input
	}
	frames := len(input) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(input[i*channels+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

// Resample converts input (interleaved, channels-wide) at fromRate to mono
// samples at toRate using a fixed sinc-interpolation kernel. The output size
// is capped at maxRelativeOutput times the naively-scaled length, mirroring
// rubato::SincFixedIn's max_resample_ratio_relative guard.
func Resample(input []float32, channels int, fromRate, toRate uint32) []float32 {
	if fromRate == toRate && channels == 1 {
		out := make([]float32, len(input))
		copy(out, input)
		return out
	}

	mono := mixDownToMono(input, channels)
	if len(mono) == 0 {
		return nil
	}

	ratio := float64(toRate) / float64(fromRate)
	cutoff := cutoffRatio
	if ratio < 1 {
		cutoff *= ratio
	}
	bank := buildSincFilterBank(cutoff)

	outLen := int(math.Ceil(float64(len(mono)) * ratio))
	maxLen := int(float64(len(mono)) * ratio * maxRelativeOutput)
	if outLen > maxLen {
		outLen = maxLen
	}
	if outLen <= 0 {
		return nil
	}

	out := make([]float32, outLen)
	half := sincLen / 2
	step := 1.0 / ratio

	for i := 0; i < outLen; i++ {
		srcPos := float64(i) * step
		srcIdx := int(math.Floor(srcPos))
		frac := srcPos - float64(srcIdx)

		phaseF := frac * float64(oversamplingFactor)
		phaseLo := int(phaseF)
		phaseFrac := phaseF - float64(phaseLo)
		if phaseLo >= oversamplingFactor {
			phaseLo = oversamplingFactor - 1
			phaseFrac = 1
		}

		var acc float64
		tapsLo := bank.taps[phaseLo]
		tapsHi := bank.taps[phaseLo+1]
		for k := 0; k < sincLen; k++ {
			srcSample := srcIdx + k - half
			if srcSample < 0 || srcSample >= len(mono) {
				continue
			}
			tap := tapsLo[k]*(1-phaseFrac) + tapsHi[k]*phaseFrac
			acc += float64(mono[srcSample]) * tap
		}
		out[i] = float32(acc)
	}

	return out
}
