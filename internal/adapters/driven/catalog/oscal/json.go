package oscal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

// Wire model shared by JSON and YAML. Field names follow OSCAL; "prose" on a
// control is a common extension for a control synopsis.

type envelope struct {
	Catalog *wireCatalog `json:"catalog" yaml:"catalog"`
}

type wireCatalog struct {
	UUID     string        `json:"uuid" yaml:"uuid"`
	Metadata wireMetadata  `json:"metadata" yaml:"metadata"`
	Groups   []wireGroup   `json:"groups" yaml:"groups"`
	Controls []wireControl `json:"controls" yaml:"controls"`
}

type wireMetadata struct {
	Title string `json:"title" yaml:"title"`
}

type wireGroup struct {
	ID       string        `json:"id" yaml:"id"`
	Title    string        `json:"title" yaml:"title"`
	Parts    []wirePart    `json:"parts" yaml:"parts"`
	Groups   []wireGroup   `json:"groups" yaml:"groups"`
	Controls []wireControl `json:"controls" yaml:"controls"`
}

type wireControl struct {
	ID       string        `json:"id" yaml:"id"`
	Title    string        `json:"title" yaml:"title"`
	Prose    string        `json:"prose" yaml:"prose"`
	Parts    []wirePart    `json:"parts" yaml:"parts"`
	Controls []wireControl `json:"controls" yaml:"controls"`
}

type wirePart struct {
	ID    string     `json:"id" yaml:"id"`
	Name  string     `json:"name" yaml:"name"`
	Prose string     `json:"prose" yaml:"prose"`
	Parts []wirePart `json:"parts" yaml:"parts"`
}

func decodeJSON(data []byte) (*domain.Catalog, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: decode json: %w", domain.ErrInvalidInput, err)
	}
	if env.Catalog != nil {
		return env.Catalog.toDomain(), nil
	}

	var bare wireCatalog
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("%w: decode json: %w", domain.ErrInvalidInput, err)
	}
	return bare.toDomain(), nil
}

func decodeYAML(data []byte) (*domain.Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &domain.Catalog{}, nil
	}

	var env envelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %w", domain.ErrInvalidInput, err)
	}
	if env.Catalog != nil {
		return env.Catalog.toDomain(), nil
	}

	var bare wireCatalog
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %w", domain.ErrInvalidInput, err)
	}
	return bare.toDomain(), nil
}

func (c *wireCatalog) toDomain() *domain.Catalog {
	return &domain.Catalog{
		ID:       c.UUID,
		Title:    c.Metadata.Title,
		Groups:   convertGroups(c.Groups),
		Controls: convertControls(c.Controls),
	}
}

func convertGroups(in []wireGroup) []domain.Group {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Group, len(in))
	for i, g := range in {
		out[i] = domain.Group{
			ID:       g.ID,
			Title:    g.Title,
			Parts:    convertParts(g.Parts),
			Groups:   convertGroups(g.Groups),
			Controls: convertControls(g.Controls),
		}
	}
	return out
}

func convertControls(in []wireControl) []domain.Control {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Control, len(in))
	for i, c := range in {
		out[i] = domain.Control{
			ID:       c.ID,
			Title:    c.Title,
			Prose:    c.Prose,
			Parts:    convertParts(c.Parts),
			Controls: convertControls(c.Controls),
		}
	}
	return out
}

func convertParts(in []wirePart) []domain.Part {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Part, len(in))
	for i, p := range in {
		out[i] = domain.Part{
			ID:    p.ID,
			Name:  p.Name,
			Prose: p.Prose,
			Parts: convertParts(p.Parts),
		}
	}
	return out
}
