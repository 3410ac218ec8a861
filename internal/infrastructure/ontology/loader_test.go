package ontology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

const sampleOntology = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#"
         xmlns:owl="http://www.w3.org/2002/07/owl#"
         xmlns:sc="http://smartcompare.com/ontologia#">
  <owl:Class rdf:about="http://smartcompare.com/ontologia#Producto"/>
  <owl:Class rdf:about="http://smartcompare.com/ontologia#Computadora">
    <rdfs:subClassOf rdf:resource="http://smartcompare.com/ontologia#Producto"/>
  </owl:Class>
  <owl:Class rdf:about="http://smartcompare.com/ontologia#Laptop">
    <rdfs:subClassOf rdf:resource="http://smartcompare.com/ontologia#Computadora"/>
  </owl:Class>
  <owl:Class rdf:about="http://smartcompare.com/ontologia#Telefono">
    <rdfs:subClassOf rdf:resource="http://smartcompare.com/ontologia#Producto"/>
  </owl:Class>
  <owl:ObjectProperty rdf:about="http://smartcompare.com/ontologia#esSimilarA"/>
  <owl:ObjectProperty rdf:about="http://smartcompare.com/ontologia#esCompatibleCon"/>
  <owl:DatatypeProperty rdf:about="http://smartcompare.com/ontologia#tienePrecio"/>
  <owl:NamedIndividual rdf:about="http://smartcompare.com/ontologia#laptop_1"/>
</rdf:RDF>`

func writeOntology(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marketplace.owl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParsesClassHierarchy(t *testing.T) {
	s, err := Load(writeOntology(t, sampleOntology), logging.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"Computadora", "Laptop", "Producto", "Telefono"}, s.Classes())
	assert.True(t, s.HasClass("Laptop"))
	assert.False(t, s.HasClass("Nevera"))
}

func TestIsSubclassOfTransitive(t *testing.T) {
	s, err := Load(writeOntology(t, sampleOntology), logging.NewNopLogger())
	require.NoError(t, err)

	assert.True(t, s.IsSubclassOf("Laptop", "Computadora"))
	assert.True(t, s.IsSubclassOf("Laptop", "Producto"))
	assert.True(t, s.IsSubclassOf("Laptop", "Laptop"))
	assert.False(t, s.IsSubclassOf("Telefono", "Computadora"))
	assert.False(t, s.IsSubclassOf("Producto", "Laptop"))
	assert.False(t, s.IsSubclassOf("Nevera", "Producto"))
}

func TestSubclasses(t *testing.T) {
	s, err := Load(writeOntology(t, sampleOntology), logging.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"Computadora", "Laptop", "Telefono"}, s.Subclasses("Producto"))
	assert.Equal(t, []string{"Laptop"}, s.Subclasses("Computadora"))
	assert.Empty(t, s.Subclasses("Laptop"))
}

func TestIndividualCount(t *testing.T) {
	s, err := Load(writeOntology(t, sampleOntology), logging.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, 1, s.IndividualCount())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.owl"), logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeOntologyNotFound))
}

func TestLoadMalformedXML(t *testing.T) {
	_, err := Load(writeOntology(t, "<rdf:RDF unclosed"), logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeOntologyLoad))
}

func TestLoadEmptyOntologyRejected(t *testing.T) {
	empty := `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:owl="http://www.w3.org/2002/07/owl#"/>`
	_, err := Load(writeOntology(t, empty), logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeOntologyLoad))
}
