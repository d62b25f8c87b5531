// Package config loads game definitions from YAML files under <basePath>/config
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/NP-Dat/tcr-sim/internal/models"
	"github.com/NP-Dat/tcr-sim/pkg/logger"
	"gopkg.in/yaml.v3"
)

// File names inside the config directory
const (
	CardsFile    = "cards.yaml"
	TowersFile   = "towers.yaml"
	ScenarioFile = "scenario.yaml"
)

// ConfigLoader is responsible for loading game configuration from YAML files
type ConfigLoader struct {
	BasePath string
}

// NewConfigLoader creates a new ConfigLoader with the given base path
func NewConfigLoader(basePath string) *ConfigLoader {
	return &ConfigLoader{
		BasePath: basePath,
	}
}

// Dir returns the directory the loader reads from
func (c *ConfigLoader) Dir() string {
	return filepath.Join(c.BasePath, "config")
}

// LoadDeck loads the deck and preview queue from cards.yaml
func (c *ConfigLoader) LoadDeck() (models.DeckSpec, error) {
	var file struct {
		Deck models.DeckSpec `yaml:"deck"`
	}
	if err := c.decode(CardsFile, &file); err != nil {
		return models.DeckSpec{}, err
	}
	return file.Deck, nil
}

// LoadTowers loads tower placements from towers.yaml
func (c *ConfigLoader) LoadTowers() ([]models.Tower, error) {
	var file struct {
		Towers []models.Tower `yaml:"towers"`
	}
	if err := c.decode(TowersFile, &file); err != nil {
		return nil, err
	}
	return file.Towers, nil
}

// LoadScenario loads players, rules and the deploy script from scenario.yaml.
// Missing rules and tick settings fall back to their defaults.
func (c *ConfigLoader) LoadScenario() (models.ScenarioSpec, error) {
	var file struct {
		Scenario models.ScenarioSpec `yaml:"scenario"`
	}
	if err := c.decode(ScenarioFile, &file); err != nil {
		return models.ScenarioSpec{}, err
	}

	scenario := file.Scenario
	scenario.Rules = scenario.Rules.WithDefaults()
	if scenario.TickDelta == 0 {
		scenario.TickDelta = models.DefaultTickDelta
	}
	if scenario.TickDelta < 0 {
		return models.ScenarioSpec{}, fmt.Errorf("scenario %q: tick_delta must be positive, got %v", scenario.Name, scenario.TickDelta)
	}
	if scenario.Ticks < 0 {
		return models.ScenarioSpec{}, fmt.Errorf("scenario %q: ticks must not be negative, got %d", scenario.Name, scenario.Ticks)
	}
	for i, step := range scenario.Script {
		if step.Tick < 0 {
			return models.ScenarioSpec{}, fmt.Errorf("scenario %q: script entry %d has negative tick %d", scenario.Name, i, step.Tick)
		}
	}
	return scenario, nil
}

// LoadGameConfig loads the deck, towers and scenario and returns a GameConfig
func (c *ConfigLoader) LoadGameConfig() (*models.GameConfig, error) {
	deck, err := c.LoadDeck()
	if err != nil {
		return nil, err
	}

	towers, err := c.LoadTowers()
	if err != nil {
		return nil, err
	}

	scenario, err := c.LoadScenario()
	if err != nil {
		return nil, err
	}

	logger.Config.Info("Loaded config from %s: %d cards, %d queued, %d towers, scenario %q with %d scripted deploys",
		c.Dir(), len(deck.Cards), len(deck.Queue), len(towers), scenario.Name, len(scenario.Script))

	return &models.GameConfig{
		Deck:     deck,
		Towers:   towers,
		Scenario: scenario,
	}, nil
}

// decode reads one YAML file from the config directory into out.
// Unknown fields are rejected.
func (c *ConfigLoader) decode(name string, out interface{}) error {
	path := filepath.Join(c.Dir(), name)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to parse %s: file is empty", name)
		}
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// FindBasePath walks up from dir looking for a directory that contains config/cards.yaml
func FindBasePath(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "config", CardsFile)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
