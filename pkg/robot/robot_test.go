package robot_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jesterlabs/go-jester/pkg/jokes"
	"github.com/jesterlabs/go-jester/pkg/robot"
	"github.com/jesterlabs/go-jester/pkg/servo"
	"github.com/jesterlabs/go-jester/pkg/speech"
)

// eventLog records what happened, in order, across goroutines.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) index(e string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, got := range l.events {
		if got == e {
			return i
		}
	}
	return -1
}

func (l *eventLog) count(prefix string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, got := range l.events {
		if len(got) >= len(prefix) && got[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

type fakeAnimator struct{ log *eventLog }

func (f *fakeAnimator) Talk(d time.Duration) { f.log.add("anim:talk") }
func (f *fakeAnimator) Laugh()               { f.log.add("anim:laugh") }
func (f *fakeAnimator) Greet()               { f.log.add("anim:greet") }

type fakeSpeaker struct {
	log       *eventLog
	available bool
}

func (f *fakeSpeaker) Speak(text string, isLaugh bool) error {
	if isLaugh {
		f.log.add("speak:laugh")
	} else {
		f.log.add("speak:" + text)
	}
	return nil
}

func (f *fakeSpeaker) EstimateDuration(text string, isLaugh bool) time.Duration {
	return 10 * time.Millisecond
}

func (f *fakeSpeaker) Available() bool       { return f.available }
func (f *fakeSpeaker) Engine() speech.Engine { return speech.EngineESpeak }
func (f *fakeSpeaker) Player() speech.Player { return speech.PlayerALSA }
func (f *fakeSpeaker) Speaking() bool        { return false }

func testRobot(available bool) (*robot.Robot, *eventLog) {
	log := &eventLog{}
	act := servo.NewWithBackend(
		servo.Config{Pin: 18, MinDuty: 0.025, MaxDuty: 0.125, Freq: 50},
		servo.NewMockBackend(),
	)
	r := robot.NewWith(act, &fakeAnimator{log: log}, &fakeSpeaker{log: log, available: available})
	return r, log
}

func TestTellJoke(t *testing.T) {
	t.Run("narrated flow runs in order", func(t *testing.T) {
		r, log := testRobot(true)

		j := jokes.Joke{
			Setup:     "Why did the chicken cross the road?",
			Punchline: "To get to the other side!",
		}

		r.TellJoke(j, true,
			func(line string) { log.add("display:" + line) },
			func() { log.add("confirm") },
		)

		// Setup is displayed and narrated before the user confirms.
		displaySetup := log.index("display:" + j.Setup)
		speakSetup := log.index("speak:" + j.Setup)
		talkFirst := log.index("anim:talk")
		confirm := log.index("confirm")
		displayPunch := log.index("display:" + j.Punchline)
		speakPunch := log.index("speak:" + j.Punchline)
		speakLaugh := log.index("speak:laugh")
		animLaugh := log.index("anim:laugh")

		for name, idx := range map[string]int{
			"display setup": displaySetup, "speak setup": speakSetup,
			"talk": talkFirst, "confirm": confirm,
			"display punchline": displayPunch, "speak punchline": speakPunch,
			"speak laugh": speakLaugh, "anim laugh": animLaugh,
		} {
			if idx == -1 {
				t.Fatalf("missing event: %s (log: %v)", name, log.events)
			}
		}

		if displaySetup != 0 {
			t.Errorf("setup not displayed first: %v", log.events)
		}
		if speakSetup > confirm || talkFirst > confirm {
			t.Errorf("setup narration not joined before confirmation: %v", log.events)
		}
		if confirm > displayPunch || displayPunch > speakPunch {
			t.Errorf("punchline out of order: %v", log.events)
		}
		if speakPunch > speakLaugh || speakPunch > animLaugh {
			t.Errorf("laugh did not follow punchline: %v", log.events)
		}
	})

	t.Run("silent flow narrates nothing", func(t *testing.T) {
		r, log := testRobot(true)

		r.TellJoke(jokes.Joke{Setup: "s", Punchline: "p"}, false,
			func(line string) { log.add("display:" + line) },
			nil,
		)

		if log.count("speak:") != 0 || log.count("anim:") != 0 {
			t.Errorf("silent joke touched speech or servo: %v", log.events)
		}
		if log.index("display:s") != 0 || log.index("display:p") != 1 {
			t.Errorf("joke text not displayed: %v", log.events)
		}
	})

	t.Run("no engine skips narration but still displays", func(t *testing.T) {
		r, log := testRobot(false)

		r.TellJoke(jokes.Joke{Setup: "s", Punchline: "p"}, true,
			func(line string) { log.add("display:" + line) },
			nil,
		)

		if log.count("speak:") != 0 {
			t.Errorf("narration ran without an engine: %v", log.events)
		}
		if log.count("display:") != 2 {
			t.Errorf("joke text lost: %v", log.events)
		}
	})
}

func TestNarrate(t *testing.T) {
	t.Run("joins animation and speech", func(t *testing.T) {
		r, log := testRobot(true)
		r.Narrate("hello", false)

		if log.index("anim:talk") == -1 || log.index("speak:hello") == -1 {
			t.Errorf("expected talk + speech, got %v", log.events)
		}
	})

	t.Run("laugh line uses laugh animation", func(t *testing.T) {
		r, log := testRobot(true)
		r.Narrate("", true)

		if log.index("anim:laugh") == -1 || log.index("speak:laugh") == -1 {
			t.Errorf("expected laugh pair, got %v", log.events)
		}
	})

	t.Run("no-op without an engine", func(t *testing.T) {
		r, log := testRobot(false)
		r.Narrate("hello", false)

		if len(log.events) != 0 {
			t.Errorf("expected nothing, got %v", log.events)
		}
	})
}

func TestLaughWithoutNarration(t *testing.T) {
	r, log := testRobot(false)
	r.Laugh(true)

	if log.index("anim:laugh") == -1 {
		t.Errorf("laugh animation missing: %v", log.events)
	}
	if log.count("speak:") != 0 {
		t.Errorf("unexpected narration: %v", log.events)
	}
}

func TestStatus(t *testing.T) {
	r, _ := testRobot(true)
	s := r.Status()

	if !s.ServoAvailable {
		t.Error("servo should be available")
	}
	if s.ServoBackend != "mock" {
		t.Errorf("backend = %q, want mock", s.ServoBackend)
	}
	if s.Engine != string(speech.EngineESpeak) {
		t.Errorf("engine = %q", s.Engine)
	}
	if s.LastAngle != nil {
		t.Errorf("last angle = %v before any command", *s.LastAngle)
	}

	if err := r.Servo().SetAngle(45); err != nil {
		t.Fatal(err)
	}
	s = r.Status()
	if s.LastAngle == nil || *s.LastAngle != 45 {
		t.Errorf("last angle = %v, want 45", s.LastAngle)
	}
}

func TestOnChange(t *testing.T) {
	r, _ := testRobot(true)

	var mu sync.Mutex
	var snapshots []robot.Status
	r.OnChange = func(s robot.Status) {
		mu.Lock()
		snapshots = append(snapshots, s)
		mu.Unlock()
	}

	r.Talk(0)
	r.Narrate("hi", false)

	mu.Lock()
	defer mu.Unlock()
	if len(snapshots) < 4 {
		t.Errorf("expected state change notifications, got %d", len(snapshots))
	}
}
