package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chenhw7/MoonLight/internal/flow"
	"github.com/chenhw7/MoonLight/internal/models"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// Manager holds the static prompt text: interviewer personas, mode lines
// and round instructions. Cue phrases are substituted from the flow package
// at load time.
type Manager struct {
	personas        map[string]string
	personaFallback string
	modes           map[string]string
	rounds          map[string]string
}

type stylesFile struct {
	Fallback string            `yaml:"fallback"`
	Personas map[string]string `yaml:"personas"`
}

type instructionsFile struct {
	Instructions map[string]string `yaml:"instructions"`
}

// NewManager loads and validates all templates.
func NewManager() (*Manager, error) {
	m := &Manager{}

	var styles stylesFile
	if err := loadYAML("styles.yaml", &styles); err != nil {
		return nil, err
	}
	m.personas = styles.Personas
	m.personaFallback = styles.Fallback

	var modes instructionsFile
	if err := loadYAML("modes.yaml", &modes); err != nil {
		return nil, err
	}
	m.modes = modes.Instructions

	var rounds instructionsFile
	if err := loadYAML("rounds.yaml", &rounds); err != nil {
		return nil, err
	}
	m.rounds = make(map[string]string, len(rounds.Instructions))
	for round, text := range rounds.Instructions {
		m.rounds[round] = strings.ReplaceAll(text, "{{.CuePhrase}}", flow.CueFor(round))
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func loadYAML(name string, out interface{}) error {
	data, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse template file %s: %w", name, err)
	}
	return nil
}

func (m *Manager) validate() error {
	for style := range models.InterviewerStyles {
		if _, ok := m.personas[style]; !ok {
			return fmt.Errorf("missing persona template for style %s", style)
		}
	}
	if _, ok := m.personas[m.personaFallback]; !ok {
		return fmt.Errorf("persona fallback %q has no template", m.personaFallback)
	}
	for _, category := range models.InterviewModes {
		for mode := range category {
			if _, ok := m.modes[mode]; !ok {
				return fmt.Errorf("missing mode instruction for %s", mode)
			}
		}
	}
	for _, round := range models.InterviewRounds {
		text, ok := m.rounds[round]
		if !ok {
			return fmt.Errorf("missing round instruction for %s", round)
		}
		if cue := flow.CueFor(round); cue != "" && !strings.Contains(text, cue) {
			return fmt.Errorf("round %s instruction does not contain its cue phrase", round)
		}
	}
	return nil
}

// Persona returns the interviewer persona paragraph for a style, falling
// back to the configured default for unknown styles.
func (m *Manager) Persona(style string) string {
	if persona, ok := m.personas[style]; ok {
		return persona
	}
	return m.personas[m.personaFallback]
}

// ModeInstruction returns the one-line instruction for an interview mode.
func (m *Manager) ModeInstruction(mode string) string {
	return m.modes[mode]
}

// RoundInstruction returns the instruction block for a round, with the cue
// phrase already substituted.
func (m *Manager) RoundInstruction(round string) string {
	return m.rounds[round]
}
