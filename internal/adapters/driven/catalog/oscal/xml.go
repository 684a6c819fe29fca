package oscal

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

// XML catalogs put prose in markup (<p>, <ol>, <li>, inline elements) rather
// than a string field. Each block's text content becomes one line of prose.

type xmlCatalog struct {
	XMLName  xml.Name     `xml:"catalog"`
	UUID     string       `xml:"uuid,attr"`
	Title    markup       `xml:"metadata>title"`
	Groups   []xmlGroup   `xml:"group"`
	Controls []xmlControl `xml:"control"`
}

type xmlGroup struct {
	ID       string       `xml:"id,attr"`
	Title    markup       `xml:"title"`
	Parts    []xmlPart    `xml:"part"`
	Groups   []xmlGroup   `xml:"group"`
	Controls []xmlControl `xml:"control"`
}

type xmlControl struct {
	ID       string       `xml:"id,attr"`
	Title    markup       `xml:"title"`
	Prose    markup       `xml:"prose"`
	Parts    []xmlPart    `xml:"part"`
	Controls []xmlControl `xml:"control"`
}

// xmlPart is decoded by hand: every child that is not structural metadata
// contributes to the prose.
type xmlPart struct {
	ID    string
	Name  string
	Prose string
	Parts []xmlPart
}

// nonProse lists part children that never contribute text.
var nonProse = map[string]bool{
	"title": true,
	"prop":  true,
	"link":  true,
	"param": true,
}

func (p *xmlPart) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "id":
			p.ID = a.Value
		case "name":
			p.Name = a.Value
		}
	}

	var blocks []string
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "part":
				var child xmlPart
				if err := d.DecodeElement(&child, &t); err != nil {
					return err
				}
				p.Parts = append(p.Parts, child)
			case nonProse[t.Name.Local]:
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				text, err := collectText(d, t.Name)
				if err != nil {
					return err
				}
				if text != "" {
					blocks = append(blocks, text)
				}
			}
		case xml.CharData:
			if text := normalizeSpace(string(t)); text != "" {
				blocks = append(blocks, text)
			}
		case xml.EndElement:
			p.Prose = strings.Join(blocks, "\n")
			return nil
		}
	}
}

// markup is an element reduced to its whitespace-normalised text content.
type markup string

func (m *markup) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	text, err := collectText(d, start.Name)
	if err != nil {
		return err
	}
	*m = markup(text)
	return nil
}

// collectText consumes tokens up to the end of the named element and returns
// its text. Nested "li" and "p" elements are separated by newlines.
func collectText(d *xml.Decoder, name xml.Name) (string, error) {
	var (
		b     strings.Builder
		depth int
	)
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if (t.Name.Local == "li" || t.Name.Local == "p") && b.Len() > 0 {
				b.WriteByte('\n')
			}
		case xml.CharData:
			writeCollapsed(&b, string(t))
		case xml.EndElement:
			if depth == 0 {
				if t.Name != name {
					return "", fmt.Errorf("unexpected </%s>", t.Name.Local)
				}
				return cleanLines(b.String()), nil
			}
			depth--
		}
	}
}

// writeCollapsed appends s with each whitespace run reduced to one space.
func writeCollapsed(b *strings.Builder, s string) {
	text := normalizeSpace(s)
	if text == "" {
		if s != "" {
			b.WriteByte(' ')
		}
		return
	}
	if unicode.IsSpace(rune(s[0])) {
		b.WriteByte(' ')
	}
	b.WriteString(text)
	if unicode.IsSpace(rune(s[len(s)-1])) {
		b.WriteByte(' ')
	}
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cleanLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = normalizeSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func decodeXML(data []byte) (*domain.Catalog, error) {
	var c xmlCatalog
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &domain.Catalog{}, nil
		}
		return nil, fmt.Errorf("%w: decode xml: %w", domain.ErrInvalidInput, err)
	}
	return c.toDomain(), nil
}

func (c *xmlCatalog) toDomain() *domain.Catalog {
	return &domain.Catalog{
		ID:       c.UUID,
		Title:    string(c.Title),
		Groups:   convertXMLGroups(c.Groups),
		Controls: convertXMLControls(c.Controls),
	}
}

func convertXMLGroups(in []xmlGroup) []domain.Group {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Group, len(in))
	for i, g := range in {
		out[i] = domain.Group{
			ID:       g.ID,
			Title:    string(g.Title),
			Parts:    convertXMLParts(g.Parts),
			Groups:   convertXMLGroups(g.Groups),
			Controls: convertXMLControls(g.Controls),
		}
	}
	return out
}

func convertXMLControls(in []xmlControl) []domain.Control {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Control, len(in))
	for i, c := range in {
		out[i] = domain.Control{
			ID:       c.ID,
			Title:    string(c.Title),
			Prose:    string(c.Prose),
			Parts:    convertXMLParts(c.Parts),
			Controls: convertXMLControls(c.Controls),
		}
	}
	return out
}

func convertXMLParts(in []xmlPart) []domain.Part {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Part, len(in))
	for i, p := range in {
		out[i] = domain.Part{
			ID:    p.ID,
			Name:  p.Name,
			Prose: p.Prose,
			Parts: convertXMLParts(p.Parts),
		}
	}
	return out
}
