package jokes_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jesterlabs/go-jester/pkg/jokes"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jokes.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeFile(t, `{"jokes":[{"setup":"Why?","punchline":"Because!"}]}`)
		b, err := jokes.Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if b.Len() != 1 {
			t.Errorf("Len() = %d, want 1", b.Len())
		}
		j := b.Random()
		if j.Setup != "Why?" || j.Punchline != "Because!" {
			t.Errorf("Random() = %+v", j)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := jokes.Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeFile(t, `{"jokes": [`)
		if _, err := jokes.Load(path); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})

	t.Run("empty list", func(t *testing.T) {
		path := writeFile(t, `{"jokes": []}`)
		if _, err := jokes.Load(path); err == nil {
			t.Error("expected error for empty list")
		}
	})

	t.Run("missing punchline", func(t *testing.T) {
		path := writeFile(t, `{"jokes":[{"setup":"Why?"}]}`)
		if _, err := jokes.Load(path); err == nil {
			t.Error("expected error for incomplete joke")
		}
	})
}

func TestLoadEmbedded(t *testing.T) {
	b, err := jokes.LoadEmbedded()
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() == 0 {
		t.Fatal("embedded pack is empty")
	}
	for _, j := range b.All() {
		if j.Setup == "" || j.Punchline == "" {
			t.Errorf("embedded joke incomplete: %+v", j)
		}
	}
}

func TestRandomCoversBook(t *testing.T) {
	b, err := jokes.LoadEmbedded()
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		seen[b.Random().Setup] = true
	}
	if len(seen) < 2 {
		t.Errorf("Random() returned %d distinct jokes from a book of %d", len(seen), b.Len())
	}
}
