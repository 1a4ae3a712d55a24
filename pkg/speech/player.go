package speech

import (
	"os/exec"
)

// Player identifies the binary used to play rendered WAV files.
type Player string

const (
	// PlayerPulse is paplay: routes through PulseAudio to the system
	// default output. Preferred.
	PlayerPulse Player = "paplay"

	// PlayerALSA is aplay: talks to ALSA directly and may default to
	// HDMI on a Pi. Fallback.
	PlayerALSA Player = "aplay"

	// PlayerNone means no WAV player was found.
	PlayerNone Player = "none"
)

// DetectPlayer probes for the best available audio player.
func DetectPlayer(look LookPathFunc) Player {
	if look == nil {
		look = exec.LookPath
	}
	if _, err := look(string(PlayerPulse)); err == nil {
		return PlayerPulse
	}
	if _, err := look(string(PlayerALSA)); err == nil {
		return PlayerALSA
	}
	return PlayerNone
}

// args returns the command line to play the given WAV file.
func (p Player) args(wav string) []string {
	switch p {
	case PlayerPulse:
		return []string{string(PlayerPulse), wav}
	case PlayerALSA:
		return []string{string(PlayerALSA), "-q", wav}
	default:
		return nil
	}
}
