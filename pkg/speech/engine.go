package speech

import (
	"os/exec"
)

// Engine identifies a narration backend binary.
type Engine string

const (
	// EnginePico is pico2wave: the most natural voice, renders to WAV.
	EnginePico Engine = "pico2wave"

	// EngineESpeak is espeak: robotic but ubiquitous on Linux.
	EngineESpeak Engine = "espeak"

	// EngineSay is the macOS say command, platform-native last resort.
	EngineSay Engine = "say"

	// EngineNone means no narration backend was found.
	EngineNone Engine = "none"
)

// enginePreference is the fixed probe order: most natural first,
// robotic fallback next, platform-native fallback last of all.
var enginePreference = []Engine{EnginePico, EngineESpeak, EngineSay}

// engineRates holds the assumed speaking rate per engine in characters
// per second, used to size the talk animation. These are tunable
// heuristics, not measurements; espeak is invoked slowed down so it gets
// a lower rate.
var engineRates = map[Engine]float64{
	EnginePico:   14,
	EngineESpeak: 10,
	EngineSay:    13,
}

// LookPathFunc resolves a binary name to a path, exec.LookPath shaped.
type LookPathFunc func(name string) (string, error)

// DetectEngine probes for narration backends in preference order and
// returns the first one found, or EngineNone.
func DetectEngine(look LookPathFunc) Engine {
	if look == nil {
		look = exec.LookPath
	}
	for _, e := range enginePreference {
		if _, err := look(string(e)); err == nil {
			return e
		}
	}
	return EngineNone
}

// Rate returns the engine's assumed speaking rate in characters per
// second. Zero for EngineNone.
func (e Engine) Rate() float64 {
	return engineRates[e]
}
