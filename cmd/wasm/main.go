//go:build js && wasm

package main

import (
	"bytes"
	"fmt"
	"syscall/js"

	"github.com/himanishpuri/AcousticScore/internal/analysis"
	"github.com/himanishpuri/AcousticScore/internal/notation"
	"github.com/himanishpuri/AcousticScore/internal/pitch"
	"github.com/himanishpuri/AcousticScore/internal/render"
)

// Error codes returned to JavaScript
const (
	ErrorNone = iota
	ErrorInvalidArgs
	ErrorAnalysis
	ErrorPitchTracking
	ErrorTempo
	ErrorRender
)

// options reads the optional fourth argument:
// {format, duration, time, tempoPolicy, title}.
func options(v js.Value) (format render.Format, d notation.Duration, ts notation.TimeSignature, policy notation.TempoPolicy, title string, err error) {
	get := func(key string) string {
		if v.Type() != js.TypeObject {
			return ""
		}
		if f := v.Get(key); f.Type() == js.TypeString {
			return f.String()
		}
		return ""
	}

	if format, err = render.ParseFormat(get("format")); err != nil {
		return
	}
	d = notation.Quarter
	if s := get("duration"); s != "" {
		if d, err = notation.ParseDuration(s); err != nil {
			return
		}
	}
	ts = notation.CommonTime
	if s := get("time"); s != "" {
		if ts, err = notation.ParseTimeSignature(s); err != nil {
			return
		}
	}
	if policy, err = notation.ParseTempoPolicy(get("tempoPolicy")); err != nil {
		return
	}
	title = get("title")
	return
}

// Transcribes audio samples and returns the encoded score.
// Returns: {error: number, data: string | Uint8Array, tempo: number, notes: number, rests: number}
func transcribeSamples(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected at least 3 arguments: audioArray, sampleRate, channels[, options]")
	}

	audioDataJS := args[0]
	sampleRateJS := args[1]
	channelsJS := args[2]

	if audioDataJS.Type() != js.TypeObject {
		return makeErrorResponse(ErrorInvalidArgs, "audioArray must be an Array or Float32Array")
	}
	if sampleRateJS.Type() != js.TypeNumber || channelsJS.Type() != js.TypeNumber {
		return makeErrorResponse(ErrorInvalidArgs, "sampleRate and channels must be numbers")
	}

	sampleRate := sampleRateJS.Int()
	channels := channelsJS.Int()
	if sampleRate <= 0 {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Invalid sample rate: %d", sampleRate))
	}
	if channels < 1 || channels > 2 {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Channels must be 1 (mono) or 2 (stereo), got: %d", channels))
	}

	var optsJS js.Value
	if len(args) > 3 {
		optsJS = args[3]
	}
	format, duration, ts, policy, title, err := options(optsJS)
	if err != nil {
		return makeErrorResponse(ErrorInvalidArgs, err.Error())
	}

	length := audioDataJS.Length()
	if length == 0 {
		return makeErrorResponse(ErrorInvalidArgs, "audioArray is empty")
	}
	samples := make([]float64, length)
	for i := 0; i < length; i++ {
		samples[i] = audioDataJS.Index(i).Float()
	}
	if channels == 2 {
		samples = stereoToMono(samples)
	}

	a, err := analysis.New(analysis.DefaultConfig())
	if err != nil {
		return makeErrorResponse(ErrorAnalysis, err.Error())
	}
	res, err := a.Analyze(samples, sampleRate)
	if err != nil {
		return makeErrorResponse(ErrorAnalysis, fmt.Sprintf("Analysis failed: %v", err))
	}

	freqs, err := pitch.DominantFrequencies(res.Pitches, res.Magnitudes)
	if err != nil {
		return makeErrorResponse(ErrorPitchTracking, err.Error())
	}
	events := notation.Sequence(pitch.Quantize(freqs), duration)

	if _, err := policy.Check(res.TempoBPM); err != nil {
		return makeErrorResponse(ErrorTempo, err.Error())
	}
	score := notation.Assemble(res.TempoBPM, ts, events)
	score.Title = title

	var buf bytes.Buffer
	if err := render.Encode(&buf, score, format); err != nil {
		return makeErrorResponse(ErrorRender, err.Error())
	}

	notes, rests := notation.Counts(events)
	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	if format == render.MIDI {
		data := js.Global().Get("Uint8Array").New(buf.Len())
		js.CopyBytesToJS(data, buf.Bytes())
		result.Set("data", data)
	} else {
		result.Set("data", buf.String())
	}
	result.Set("tempo", score.Part.Tempo.BPM)
	result.Set("notes", notes)
	result.Set("rests", rests)
	return result
}

func stereoToMono(stereo []float64) []float64 {
	if len(stereo)%2 != 0 {
		stereo = stereo[:len(stereo)-1]
	}

	mono := make([]float64, len(stereo)/2)
	for i := range mono {
		mono[i] = (stereo[i*2] + stereo[i*2+1]) / 2.0
	}
	return mono
}

func makeErrorResponse(errorCode int, message string) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", errorCode)
	result.Set("data", message)
	return result
}

func main() {
	console := js.Global().Get("console")
	if !console.IsUndefined() {
		console.Call("log", "🔧 AcousticScore WASM module initializing...")
	}

	done := make(chan struct{})

	js.Global().Set("transcribeSamples", js.FuncOf(transcribeSamples))

	window := js.Global().Get("window")
	if !window.IsUndefined() {
		eventInit := js.Global().Get("Object").New()
		event := js.Global().Get("CustomEvent").New("wasmReady", eventInit)
		window.Call("dispatchEvent", event)
	} else if !console.IsUndefined() {
		console.Call("error", "❌ window object is undefined!")
	}

	if !console.IsUndefined() {
		console.Call("log", "✅ AcousticScore WASM module loaded and ready")
	}

	<-done
}
