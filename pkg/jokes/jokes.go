// Package jokes loads the static setup/punchline list the robot tells from.
package jokes

import (
	"embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
)

//go:embed data/dad_jokes.json
var embeddedJokes embed.FS

// Joke is one setup/punchline pair.
type Joke struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

// file is the on-disk format: a single top-level list.
type file struct {
	Jokes []Joke `json:"jokes"`
}

// Book is a loaded, immutable collection of jokes.
type Book struct {
	jokes []Joke
}

// Load reads a joke file from disk. A missing or malformed file is the
// one fatal condition in the system; callers exit with the diagnostic.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jokes: read %s: %w", path, err)
	}
	return parse(data, path)
}

// LoadEmbedded returns the joke pack compiled into the binary, so the
// robot works with no files on disk.
func LoadEmbedded() (*Book, error) {
	data, err := embeddedJokes.ReadFile("data/dad_jokes.json")
	if err != nil {
		return nil, fmt.Errorf("jokes: embedded pack: %w", err)
	}
	return parse(data, "embedded")
}

func parse(data []byte, source string) (*Book, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("jokes: invalid JSON in %s: %w", source, err)
	}
	if len(f.Jokes) == 0 {
		return nil, fmt.Errorf("jokes: %s contains no jokes", source)
	}
	for i, j := range f.Jokes {
		if j.Setup == "" || j.Punchline == "" {
			return nil, fmt.Errorf("jokes: %s: joke %d is missing setup or punchline", source, i)
		}
	}
	return &Book{jokes: f.Jokes}, nil
}

// Len returns how many jokes are loaded.
func (b *Book) Len() int {
	return len(b.jokes)
}

// Random picks one joke uniformly.
func (b *Book) Random() Joke {
	return b.jokes[rand.Intn(len(b.jokes))]
}

// All returns a copy of every joke.
func (b *Book) All() []Joke {
	out := make([]Joke, len(b.jokes))
	copy(out, b.jokes)
	return out
}
