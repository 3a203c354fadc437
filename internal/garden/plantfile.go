package garden

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// plantDoc is the YAML shape of a plant definition:
//
//	name: Monstera
//	emoji: 🪴
//	base_days: 7
//	seasonal:
//	  winter: 1.5
//	care_tips:
//	  - Bright, indirect light
//	color: "#2ECC71"
type plantDoc struct {
	Name     string             `yaml:"name"`
	Emoji    string             `yaml:"emoji"`
	BaseDays int                `yaml:"base_days"`
	Seasonal map[string]float64 `yaml:"seasonal"`
	CareTips []string           `yaml:"care_tips"`
	Color    string             `yaml:"color"`
	Image    string             `yaml:"image"`
}

type plantFile struct {
	Plants []plantDoc `yaml:"plants"`
}

// LoadPlantFile reads plant definitions from a YAML file. The file holds
// either a single plant document or a top-level "plants" list.
func LoadPlantFile(path string) ([]Plant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plant file: %w", err)
	}
	return ParsePlants(data)
}

// ParsePlants decodes one or more YAML documents of plant definitions.
func ParsePlants(data []byte) ([]Plant, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var plants []Plant
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode plant yaml: %w", err)
		}

		var list plantFile
		if err := node.Decode(&list); err == nil && len(list.Plants) > 0 {
			for _, d := range list.Plants {
				p, err := d.toPlant()
				if err != nil {
					return nil, err
				}
				plants = append(plants, p)
			}
			continue
		}

		var doc plantDoc
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode plant: %w", err)
		}
		p, err := doc.toPlant()
		if err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	if len(plants) == 0 {
		return nil, errors.New("no plants defined")
	}
	return plants, nil
}

func (d plantDoc) toPlant() (Plant, error) {
	p := Plant{
		Name:     d.Name,
		Emoji:    d.Emoji,
		BaseDays: d.BaseDays,
		CareTips: d.CareTips,
		Color:    d.Color,
		ImageRef: d.Image,
		Origin:   OriginCustom,
		Seasonal: make(map[Season]float64, len(Seasons)),
	}
	for k, v := range d.Seasonal {
		s := Season(strings.ToLower(strings.TrimSpace(k)))
		if !s.Valid() {
			return Plant{}, fmt.Errorf("plant %q: unknown season %q", d.Name, k)
		}
		p.Seasonal[s] = v
	}
	if err := Normalize(&p); err != nil {
		return Plant{}, err
	}
	return p, nil
}

// Normalize validates a user-supplied plant and fills defaults: every season
// gets a multiplier and an empty color falls back to the default palette entry.
func Normalize(p *Plant) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errors.New("plant name is required")
	}
	if p.BaseDays <= 0 {
		return fmt.Errorf("plant %q: base interval must be positive, got %d", p.Name, p.BaseDays)
	}
	if p.Seasonal == nil {
		p.Seasonal = make(map[Season]float64, len(Seasons))
	}
	for _, s := range Seasons {
		m, ok := p.Seasonal[s]
		if !ok {
			p.Seasonal[s] = 1.0
			continue
		}
		if m <= 0 {
			return fmt.Errorf("plant %q: %s multiplier must be positive, got %g", p.Name, s, m)
		}
	}
	if p.Emoji == "" {
		p.Emoji = "🪴"
	}
	if p.Color == "" {
		p.Color = Palette[0]
	}
	return nil
}

// Palette is the set of colors offered for new plants.
var Palette = []string{"#2ECC71", "#4ECDC4", "#FF6B6B", "#F39C12", "#FFB6C1", "#9B59B6", "#3498DB", "#90EE90"}
