package kb

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/justifier/internal/axiom"
)

// Document is the YAML interchange form of a knowledge base:
//
//	units:
//	  - name: pets
//	    active: true
//	    axioms:
//	      - Cat SubClassOf Animal
//	      - tom Type Cat
type Document struct {
	Units []UnitDoc `yaml:"units"`
}

// UnitDoc is one unit of a Document. Active defaults to true.
type UnitDoc struct {
	Name   string   `yaml:"name"`
	Active *bool    `yaml:"active,omitempty"`
	Axioms []string `yaml:"axioms"`
}

// ParseDocument decodes YAML and checks every axiom parses.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "kb: decode document")
	}
	for _, u := range doc.Units {
		if u.Name == "" {
			return nil, errors.New("kb: unit without a name")
		}
		for _, text := range u.Axioms {
			if _, err := axiom.Parse(text); err != nil {
				return nil, errors.Wrapf(err, "kb: unit %q", u.Name)
			}
		}
	}
	return &doc, nil
}

// Import replaces the contents and active flag of every unit in doc. Units
// not named in doc are left alone. All changes go out as one batch.
func (kb *KnowledgeBase) Import(doc *Document) ([]axiom.Change, error) {
	next := make([]StoredUnit, 0, len(doc.Units))
	seen := make(map[string]bool, len(doc.Units))
	for _, u := range doc.Units {
		if seen[u.Name] {
			return nil, errors.Newf("kb: unit %q appears twice", u.Name)
		}
		seen[u.Name] = true
		axs := make([]axiom.Axiom, 0, len(u.Axioms))
		for _, text := range u.Axioms {
			a, err := axiom.Parse(text)
			if err != nil {
				return nil, errors.Wrapf(err, "kb: unit %q", u.Name)
			}
			axs = append(axs, a)
		}
		active := true
		if u.Active != nil {
			active = *u.Active
		}
		next = append(next, StoredUnit{Name: u.Name, Active: active, Axioms: axiom.Dedupe(axs)})
	}
	return kb.mutate(func(func(string) (unitState, bool)) ([]StoredUnit, error) {
		return next, nil
	})
}

// ImportFile reads a YAML document from path and imports it.
func (kb *KnowledgeBase) ImportFile(path string) ([]axiom.Change, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "kb: read %s", path)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, errors.Wrapf(err, "kb: %s", path)
	}
	return kb.Import(doc)
}

// Export renders every unit as a Document.
func (kb *KnowledgeBase) Export() *Document {
	doc := &Document{}
	for _, u := range kb.Units() {
		active := u.active
		ud := UnitDoc{Name: u.name, Active: &active}
		for _, a := range u.axioms {
			ud.Axioms = append(ud.Axioms, a.Key())
		}
		doc.Units = append(doc.Units, ud)
	}
	return doc
}

// Marshal encodes doc as YAML.
func (doc *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(doc)
}
