// Package ontology loads the marketplace OWL schema from its RDF/XML
// serialization. The loaded schema backs class validation and hierarchy
// lookups without a round trip to the knowledge base.
package ontology

import (
	"encoding/xml"
	"os"
	"sort"
	"strings"

	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

type resourceRef struct {
	Resource string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# resource,attr"`
}

type owlClass struct {
	About      string        `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# about,attr"`
	SubClassOf []resourceRef `xml:"http://www.w3.org/2000/01/rdf-schema# subClassOf"`
}

type owlProperty struct {
	About string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# about,attr"`
}

type rdfDocument struct {
	XMLName            xml.Name      `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# RDF"`
	Classes            []owlClass    `xml:"http://www.w3.org/2002/07/owl# Class"`
	ObjectProperties   []owlProperty `xml:"http://www.w3.org/2002/07/owl# ObjectProperty"`
	DatatypeProperties []owlProperty `xml:"http://www.w3.org/2002/07/owl# DatatypeProperty"`
	Individuals        []owlClass    `xml:"http://www.w3.org/2002/07/owl# NamedIndividual"`
}

// Schema is the parsed class and property vocabulary. Immutable after load,
// safe for concurrent reads.
type Schema struct {
	parents            map[string][]string
	objectProperties   map[string]struct{}
	datatypeProperties map[string]struct{}
	individualCount    int
}

// localName strips the namespace from a URI.
func localName(uri string) string {
	if i := strings.LastIndex(uri, "#"); i >= 0 {
		return uri[i+1:]
	}
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// Load parses the RDF/XML ontology at path. A missing file and a
// syntactically broken one are distinct failures so operators can tell a
// deployment problem from a corrupted artifact.
func Load(path string, logger logging.Logger) (*Schema, error) {
	log := logger.Named("ontology")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.CodeOntologyNotFound, "ontology file not found").
				WithDetailf("path=%s", path)
		}
		return nil, errors.Wrap(err, errors.CodeOntologyLoad, "failed to read ontology file").
			WithDetailf("path=%s", path)
	}

	var doc rdfDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.CodeOntologyLoad, "ontology is not valid RDF/XML").
			WithDetailf("path=%s", path)
	}
	if len(doc.Classes) == 0 {
		return nil, errors.New(errors.CodeOntologyLoad, "ontology declares no classes").
			WithDetailf("path=%s", path)
	}

	s := &Schema{
		parents:            make(map[string][]string, len(doc.Classes)),
		objectProperties:   make(map[string]struct{}, len(doc.ObjectProperties)),
		datatypeProperties: make(map[string]struct{}, len(doc.DatatypeProperties)),
		individualCount:    len(doc.Individuals),
	}
	for _, c := range doc.Classes {
		if c.About == "" {
			continue
		}
		name := localName(c.About)
		var parents []string
		for _, p := range c.SubClassOf {
			if p.Resource != "" {
				parents = append(parents, localName(p.Resource))
			}
		}
		s.parents[name] = parents
	}
	for _, p := range doc.ObjectProperties {
		if p.About != "" {
			s.objectProperties[localName(p.About)] = struct{}{}
		}
	}
	for _, p := range doc.DatatypeProperties {
		if p.About != "" {
			s.datatypeProperties[localName(p.About)] = struct{}{}
		}
	}

	log.Info("ontology loaded",
		logging.String("path", path),
		logging.Int("classes", len(s.parents)),
		logging.Int("object_properties", len(s.objectProperties)),
		logging.Int("datatype_properties", len(s.datatypeProperties)),
		logging.Int("individuals", s.individualCount),
	)
	return s, nil
}

// HasClass reports whether the schema declares the class.
func (s *Schema) HasClass(name string) bool {
	_, ok := s.parents[name]
	return ok
}

// Classes returns every declared class name, sorted.
func (s *Schema) Classes() []string {
	out := make([]string, 0, len(s.parents))
	for name := range s.parents {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsSubclassOf reports whether child reaches ancestor through zero or more
// subclass hops. Every class is a subclass of itself.
func (s *Schema) IsSubclassOf(child, ancestor string) bool {
	if child == ancestor {
		return s.HasClass(child)
	}
	seen := make(map[string]bool)
	queue := []string{child}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if seen[current] {
			continue
		}
		seen[current] = true
		for _, p := range s.parents[current] {
			if p == ancestor {
				return true
			}
			queue = append(queue, p)
		}
	}
	return false
}

// Subclasses returns every class that descends from ancestor, not including
// ancestor itself, sorted.
func (s *Schema) Subclasses(ancestor string) []string {
	var out []string
	for name := range s.parents {
		if name != ancestor && s.IsSubclassOf(name, ancestor) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// IndividualCount returns how many named individuals the document declares.
func (s *Schema) IndividualCount() int {
	return s.individualCount
}
