// Package speech narrates text through whichever text-to-speech binary is
// installed on the host.
//
// Backends are probed once at startup in a fixed preference order
// (pico2wave, espeak, say) and the result is cached for the process
// lifetime; absence of an engine permanently degrades to "no narration".
// Engines that cannot play audio themselves render to a uniquely named
// temporary WAV which is played through paplay or aplay and removed on
// every exit path.
package speech

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LaughPhrase replaces the text of any laugh line.
const LaughPhrase = "Ha ha ha ha! That's a good one!"

// RunFunc executes an external command and waits for it to exit.
// Swapped out by tests; the default shells out via os/exec.
type RunFunc func(name string, args ...string) error

// Dispatcher serializes narration through a single external engine.
//
// One mutex guards the narration call so overlapping requests serialize
// rather than race on temp-file naming or the audio device. There is no
// queue and no timeout: a hung binary blocks the dispatcher.
type Dispatcher struct {
	engine Engine
	player Player
	hasSox bool
	rate   float64
	tmpDir string

	run    RunFunc
	logger *slog.Logger

	mu sync.Mutex

	stateMu  sync.Mutex
	speaking bool
	failures int
}

// Option is a functional option for configuring the Dispatcher.
type Option func(*Dispatcher)

// WithRate overrides the engine's assumed speaking rate (chars/sec).
func WithRate(charsPerSec float64) Option {
	return func(d *Dispatcher) {
		if charsPerSec > 0 {
			d.rate = charsPerSec
		}
	}
}

// WithRunner replaces the subprocess runner (for tests).
func WithRunner(run RunFunc) Option {
	return func(d *Dispatcher) { d.run = run }
}

// WithLookPath replaces binary probing (for tests).
func WithLookPath(look LookPathFunc) Option {
	return func(d *Dispatcher) {
		d.engine = DetectEngine(look)
		d.player = DetectPlayer(look)
		_, err := look("sox")
		d.hasSox = err == nil
	}
}

// WithTempDir overrides where temporary WAV files are written.
func WithTempDir(dir string) Option {
	return func(d *Dispatcher) { d.tmpDir = dir }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger.With("component", "speech") }
}

// New probes the host for narration backends and returns a Dispatcher.
// With no engine installed the Dispatcher still works: Speak returns
// ErrEngineUnavailable and callers skip narration.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		tmpDir: os.TempDir(),
		run:    execRun,
		logger: slog.Default().With("component", "speech"),
	}

	d.engine = DetectEngine(nil)
	d.player = DetectPlayer(nil)
	_, soxErr := exec.LookPath("sox")
	d.hasSox = soxErr == nil

	for _, opt := range opts {
		opt(d)
	}

	if d.rate == 0 {
		d.rate = d.engine.Rate()
	}

	if d.engine == EngineNone {
		d.logger.Warn("no narration engine found, speech disabled",
			"probed", enginePreference)
	} else {
		d.logger.Info("narration engine selected",
			"engine", d.engine,
			"player", d.player,
			"sox", d.hasSox,
		)
	}
	return d
}

// Engine returns the selected narration backend.
func (d *Dispatcher) Engine() Engine { return d.engine }

// Player returns the selected audio player.
func (d *Dispatcher) Player() Player { return d.player }

// Available reports whether narration is possible at all.
func (d *Dispatcher) Available() bool { return d.engine != EngineNone }

// Speaking reports whether a narration is currently in flight.
func (d *Dispatcher) Speaking() bool {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	return d.speaking
}

// Failures returns how many subprocess failures were swallowed so far.
func (d *Dispatcher) Failures() int {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	return d.failures
}

// EstimateDuration guesses how long the engine will take to narrate text,
// from the character count and the assumed speaking rate. A heuristic for
// sizing the talk animation, not a promise of lip sync.
func (d *Dispatcher) EstimateDuration(text string, isLaugh bool) time.Duration {
	if isLaugh {
		text = LaughPhrase
	}
	if d.rate <= 0 {
		return 0
	}
	return time.Duration(float64(len(text)) / d.rate * float64(time.Second))
}

// Speak narrates text and blocks until the audio finishes. If isLaugh the
// text is ignored and the fixed laugh phrase is spoken instead.
//
// Subprocess failures are logged and returned as *ProcessError; callers
// in the joke flow ignore them. ErrEngineUnavailable when no engine exists.
func (d *Dispatcher) Speak(text string, isLaugh bool) error {
	if d.engine == EngineNone {
		return ErrEngineUnavailable
	}
	if isLaugh {
		text = LaughPhrase
	}
	if text == "" {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.setSpeaking(true)
	defer d.setSpeaking(false)

	var err error
	switch d.engine {
	case EnginePico:
		err = d.speakPico(text)
	case EngineESpeak:
		err = d.speakESpeak(text)
	case EngineSay:
		err = d.speakSay(text)
	}

	if err != nil {
		d.stateMu.Lock()
		d.failures++
		d.stateMu.Unlock()
		d.logger.Warn("narration failed, continuing without audio", "error", err)
	}
	return err
}

// Utterance is a handle to an in-flight asynchronous narration.
type Utterance struct {
	done chan struct{}
	err  error
}

// Wait blocks until the narration finishes and returns its error.
func (u *Utterance) Wait() error {
	<-u.done
	return u.err
}

// SpeakAsync starts narration on its own goroutine and returns a handle
// the caller can wait on.
func (d *Dispatcher) SpeakAsync(text string, isLaugh bool) *Utterance {
	u := &Utterance{done: make(chan struct{})}
	go func() {
		defer close(u.done)
		u.err = d.Speak(text, isLaugh)
	}()
	return u
}

// speakPico renders the text to a temporary WAV with pico2wave, boosts
// the volume with sox when available, and plays the result. All temporary
// artifacts are removed on every exit path.
func (d *Dispatcher) speakPico(text string) error {
	wav := d.tempWAV()
	defer os.Remove(wav)

	if err := d.run("pico2wave", "-l", "en-US", "-w", wav, text); err != nil {
		return wrapProcess("pico2wave", err)
	}

	if d.hasSox {
		loud := d.tempWAV()
		defer os.Remove(loud)
		if err := d.run("sox", wav, loud, "vol", "3.0"); err == nil {
			return d.play(loud)
		}
		// Boost failed; the unamplified render is still playable.
	}
	return d.play(wav)
}

// speakESpeak invokes espeak loud, slowed down and with word gaps. When a
// player exists the audio is rendered to a temporary WAV and routed
// through it so output follows the system default device instead of HDMI.
func (d *Dispatcher) speakESpeak(text string) error {
	args := []string{"-a", "200", "-s", "120", "-g", "10"}

	if d.player == PlayerNone {
		if err := d.run("espeak", append(args, text)...); err != nil {
			return wrapProcess("espeak", err)
		}
		return nil
	}

	wav := d.tempWAV()
	defer os.Remove(wav)

	if err := d.run("espeak", append(args, "-w", wav, text)...); err != nil {
		return wrapProcess("espeak", err)
	}
	return d.play(wav)
}

// speakSay uses the macOS say command, which plays audio itself.
func (d *Dispatcher) speakSay(text string) error {
	if err := d.run("say", "-v", "Fred", text); err != nil {
		return wrapProcess("say", err)
	}
	return nil
}

// play routes a WAV file through the detected audio player.
func (d *Dispatcher) play(wav string) error {
	if d.player == PlayerNone {
		return ErrNoPlayer
	}
	args := d.player.args(wav)
	if err := d.run(args[0], args[1:]...); err != nil {
		return wrapProcess(args[0], err)
	}
	return nil
}

// tempWAV returns a uniquely named path for a temporary WAV file.
func (d *Dispatcher) tempWAV() string {
	return filepath.Join(d.tmpDir, "jester-"+uuid.NewString()+".wav")
}

func (d *Dispatcher) setSpeaking(v bool) {
	d.stateMu.Lock()
	d.speaking = v
	d.stateMu.Unlock()
}

// execRun is the default subprocess runner.
func execRun(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if len(out) > 0 {
			return fmt.Errorf("%w: %s", err, bytes.TrimSpace(out))
		}
		return err
	}
	return nil
}
