package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

//go:embed data/voices.json data/artstyles.json data/music.json
var dataFS embed.FS

type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ArtStyle struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

type MusicTrack struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Catalog holds the bundled creative options served by the API and
// consulted by the render pipeline for art-style prompts.
type Catalog struct {
	Voices    []Voice
	ArtStyles map[string]ArtStyle
	Music     []MusicTrack
}

func Load() (*Catalog, error) {
	c := &Catalog{}

	if err := loadJSON("data/voices.json", &c.Voices); err != nil {
		return nil, err
	}
	if err := loadJSON("data/artstyles.json", &c.ArtStyles); err != nil {
		return nil, err
	}
	if err := loadJSON("data/music.json", &c.Music); err != nil {
		return nil, err
	}

	return c, nil
}

func loadJSON(path string, dst interface{}) error {
	data, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

var styleIDSeparators = regexp.MustCompile(`[_-]`)

// StylePrompt returns the prompt text for an art-style id. Unknown ids
// fall back to a readable "<style> illustration" prompt so a stale or
// custom style id still produces usable images.
func (c *Catalog) StylePrompt(styleID string) string {
	if style, ok := c.ArtStyles[styleID]; ok && style.Prompt != "" {
		return style.Prompt
	}
	return styleIDSeparators.ReplaceAllString(styleID, " ") + " illustration"
}

// HasVoice reports whether a voice id exists in the bundled catalog.
func (c *Catalog) HasVoice(voiceID string) bool {
	for _, v := range c.Voices {
		if strings.EqualFold(v.ID, voiceID) {
			return true
		}
	}
	return false
}
