// SPDX-License-Identifier: MIT
package analyzer

import (
	"github.com/go-audio/audio"
)

// PushInterleaved ingests an interleaved multi-channel block, mixing it to
// mono (arithmetic mean across channels) before analysis.
// Performance Critical (Hot Path):
// - Mixdown uses the pre-allocated scratch buffer only
// - Blocks longer than MaxBlockFrames are truncated, not grown
func (a *Analyzer) PushInterleaved(in []float32, channels int) {
	if len(in) == 0 || channels <= 0 {
		return
	}
	if channels == 1 {
		a.Push(in)
		return
	}

	frames := len(in) / channels
	if frames > len(a.monoMix) {
		frames = len(a.monoMix) // process what fits
	}
	if frames == 0 {
		return
	}

	scale := 1.0 / float32(channels)
	for i := 0; i < frames; i++ {
		var sum float32
		base := i * channels
		for c := 0; c < channels; c++ {
			sum += in[base+c]
		}
		a.monoMix[i] = sum * scale
	}

	a.Push(a.monoMix[:frames])
}

// PushBuffer ingests a go-audio float32 buffer, reading the channel count
// from its format. Nil or empty buffers are a silent no-op.
func (a *Analyzer) PushBuffer(buf *audio.Float32Buffer) {
	if buf == nil || len(buf.Data) == 0 {
		return
	}
	channels := 1
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}
	a.PushInterleaved(buf.Data, channels)
}
