package catalog

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(c.Voices) == 0 {
		t.Error("expected bundled voices")
	}
	if len(c.ArtStyles) == 0 {
		t.Error("expected bundled art styles")
	}
	if len(c.Music) == 0 {
		t.Error("expected bundled music tracks")
	}

	for _, v := range c.Voices {
		if v.ID == "" || v.Name == "" {
			t.Errorf("voice with empty id or name: %+v", v)
		}
	}
	for id, style := range c.ArtStyles {
		if style.Prompt == "" {
			t.Errorf("art style %s has no prompt", id)
		}
	}
	for _, m := range c.Music {
		if !strings.HasPrefix(m.URL, "https://") {
			t.Errorf("music track %s has non-https URL: %s", m.ID, m.URL)
		}
	}
}

func TestStylePrompt(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Known style returns its bundled prompt.
	if got := c.StylePrompt("anime"); got != c.ArtStyles["anime"].Prompt {
		t.Errorf("StylePrompt(anime) = %q", got)
	}

	// Unknown style falls back to a readable prompt.
	if got := c.StylePrompt("neo_noir-comic"); got != "neo noir comic illustration" {
		t.Errorf("StylePrompt fallback = %q", got)
	}
}

func TestHasVoice(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	first := c.Voices[0].ID
	if !c.HasVoice(first) {
		t.Errorf("expected HasVoice(%q) to be true", first)
	}
	if !c.HasVoice(strings.ToUpper(first)) {
		t.Errorf("voice lookup should be case-insensitive")
	}
	if c.HasVoice("no-such-voice") {
		t.Error("expected HasVoice to reject unknown id")
	}
}
