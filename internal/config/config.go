// Package config provides configuration helpers for go-jester commands.
// Everything is driven by environment variables with Raspberry Pi defaults
// matching the original wiring (servo on GPIO 18, 50Hz PWM).
package config

import (
	"os"
	"strconv"
)

// Default servo calibration.
//
// The duty bounds map 0-180 degrees onto a 0.5ms-2.5ms pulse at 50Hz,
// which is what cheap SG90-class servos expect.
const (
	DefaultServoPin     = 18
	DefaultServoMinDuty = 0.025
	DefaultServoMaxDuty = 0.125
	DefaultServoFreq    = 50

	DefaultPort = "8080"

	// DefaultSpeechRate is the assumed narration speed in characters per
	// second, used to size the talk animation. A heuristic, not a
	// measurement of the rendered audio.
	DefaultSpeechRate = 12.0
)

// ServoPin returns the BCM GPIO pin for the mouth servo.
func ServoPin() int {
	return intEnv("SERVO_PIN", DefaultServoPin)
}

// ServoMinDuty returns the duty fraction for 0 degrees.
func ServoMinDuty() float64 {
	return floatEnv("SERVO_MIN_DUTY", DefaultServoMinDuty)
}

// ServoMaxDuty returns the duty fraction for 180 degrees.
func ServoMaxDuty() float64 {
	return floatEnv("SERVO_MAX_DUTY", DefaultServoMaxDuty)
}

// ServoFreq returns the PWM frequency in Hz.
func ServoFreq() int {
	return intEnv("SERVO_FREQ", DefaultServoFreq)
}

// Port returns the web server port from JESTER_PORT.
func Port() string {
	if p := os.Getenv("JESTER_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// JokesPath returns an on-disk joke file from JESTER_JOKES.
// Empty means use the embedded joke pack.
func JokesPath() string {
	return os.Getenv("JESTER_JOKES")
}

// SpeechRate returns the assumed speaking rate in characters per second.
func SpeechRate() float64 {
	return floatEnv("SPEECH_RATE", DefaultSpeechRate)
}

func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}
