// Package content holds the jokes, stories and songs the assistant can
// perform offline.
package content

import (
	_ "embed"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Catalog struct {
	Jokes struct {
		Kids    []string `yaml:"kids"`
		General []string `yaml:"general"`
	} `yaml:"jokes"`
	Stories []string          `yaml:"stories"`
	Songs   map[string]string `yaml:"songs"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if len(c.Jokes.Kids) == 0 || len(c.Jokes.General) == 0 {
		return nil, fmt.Errorf("catalog needs kids and general jokes")
	}

	if len(c.Stories) == 0 {
		return nil, fmt.Errorf("catalog has no stories")
	}

	songs := make(map[string]string, len(c.Songs))
	for name, lyrics := range c.Songs {
		songs[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(lyrics)
	}
	c.Songs = songs

	return &c, nil
}

// Joke picks a joke, from the kids set when kids is true.
func (c *Catalog) Joke(rng *rand.Rand, kids bool) string {
	if kids {
		return pick(rng, c.Jokes.Kids)
	}
	return pick(rng, c.Jokes.General)
}

func (c *Catalog) Story(rng *rand.Rand) string {
	return pick(rng, c.Stories)
}

// Song returns the lyrics for a song title.
func (c *Catalog) Song(name string) (string, bool) {
	lyrics, ok := c.Songs[strings.ToLower(strings.TrimSpace(name))]
	return lyrics, ok
}

// SongNames lists known titles alphabetically.
func (c *Catalog) SongNames() []string {
	names := make([]string, 0, len(c.Songs))
	for name := range c.Songs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func pick(rng *rand.Rand, items []string) string {
	return items[rng.Intn(len(items))]
}
