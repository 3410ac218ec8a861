// Shared infrastructure for the integration suite. The real service stack
// is wired against an in-process SPARQL endpoint seeded with a small
// marketplace, and exercised end to end through the public REST client.
package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iamrodrigodev/smartcomparemarket/internal/application/analysis"
	"github.com/iamrodrigodev/smartcomparemarket/internal/application/comparison"
	"github.com/iamrodrigodev/smartcomparemarket/internal/application/product"
	"github.com/iamrodrigodev/smartcomparemarket/internal/application/recommendation"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/prometheus"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/reasoner"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/sparql"
	apihttp "github.com/iamrodrigodev/smartcomparemarket/internal/interfaces/http"
	"github.com/iamrodrigodev/smartcomparemarket/internal/interfaces/http/handlers"
	"github.com/iamrodrigodev/smartcomparemarket/pkg/client"
)

// ---------------------------------------------------------------------------
// SPARQL results helpers
// ---------------------------------------------------------------------------

type term map[string]string

func lit(value string) term {
	return term{"type": "literal", "value": value}
}

func iri(localName string) term {
	return term{"type": "uri", "value": sparql.BaseOntologyURI + localName}
}

type binding map[string]term

func resultsJSON(vars []string, rows ...binding) []byte {
	envelope := map[string]interface{}{
		"head":    map[string]interface{}{"vars": vars},
		"results": map[string]interface{}{"bindings": rows},
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		panic(err)
	}
	return body
}

// ---------------------------------------------------------------------------
// Fake store
// ---------------------------------------------------------------------------

var productByIDPattern = regexp.MustCompile(`sc:([A-Za-z0-9_]+) \?propiedad`)

// fakeStore emulates the repository's SPARQL HTTP protocol over a fixed
// three-product marketplace. Queries are matched on their structural
// markers, not parsed; every received query and its inference flag are
// recorded for assertions.
type fakeStore struct {
	srv *httptest.Server

	mu       sync.Mutex
	queries  []string
	inferred []bool
}

func newFakeStore(t *testing.T) *fakeStore {
	t.Helper()

	fs := &fakeStore{}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		query := string(body)

		fs.mu.Lock()
		fs.queries = append(fs.queries, query)
		fs.inferred = append(fs.inferred, r.URL.Query().Get("infer") == "true")
		fs.mu.Unlock()

		w.Header().Set("Content-Type", "application/sparql-results+json")
		w.Write(fs.dispatch(query))
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

// InferredQueries returns the recorded queries that asked for entailed
// triples.
func (fs *fakeStore) InferredQueries() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var out []string
	for i, q := range fs.queries {
		if fs.inferred[i] {
			out = append(out, q)
		}
	}
	return out
}

func (fs *fakeStore) dispatch(query string) []byte {
	switch {
	case strings.Contains(query, "?propiedad ?valor"):
		return fs.productProperties(query)

	case strings.Contains(query, "?similar"):
		return resultsJSON([]string{"similar", "nombre", "precio", "marca"},
			binding{"similar": iri("Laptop_2"), "nombre": lit("Laptop Air 13"), "precio": lit("950.00"), "marca": lit("HP")},
		)

	case strings.Contains(query, "?incompatible"):
		return resultsJSON([]string{"incompatible", "nombre", "razon"},
			binding{"incompatible": iri("Telefono_1"), "nombre": lit("Telefono X"), "razon": lit("Sistema operativo diferente")},
		)

	case strings.Contains(query, "?compatible"):
		return resultsJSON([]string{"compatible", "nombre", "precio"},
			binding{"compatible": iri("Telefono_1"), "nombre": lit("Telefono X"), "precio": lit("600.00")},
		)

	case strings.Contains(query, "VALUES ?producto"):
		return resultsJSON([]string{"producto", "nombre", "precio", "ram", "almacenamiento", "procesador"},
			binding{
				"producto": iri("Laptop_1"), "nombre": lit("Laptop Pro 15"), "precio": lit("1200.50"),
				"ram": lit("16"), "almacenamiento": lit("512"), "procesador": lit("Intel i7"),
			},
			binding{
				"producto": iri("Laptop_2"), "nombre": lit("Laptop Air 13"), "precio": lit("950.00"),
				"ram": lit("8"), "almacenamiento": lit("256"), "procesador": lit("Intel i5"),
			},
		)

	case strings.Contains(query, "?valorScore"):
		return resultsJSON([]string{"producto", "nombre", "precio", "ram", "almacenamiento", "valorScore"},
			binding{
				"producto": iri("Laptop_1"), "nombre": lit("Laptop Pro 15"), "precio": lit("1200.50"),
				"ram": lit("16"), "almacenamiento": lit("512"), "valorScore": lit("0.44"),
			},
		)

	case strings.Contains(query, "esRecomendadoPara"):
		return resultsJSON([]string{"producto", "nombre", "precio", "razon"},
			binding{"producto": iri("Laptop_2"), "nombre": lit("Laptop Air 13"), "precio": lit("950.00"), "razon": lit("Dentro de presupuesto")},
			binding{"producto": iri("Laptop_1"), "nombre": lit("Laptop Pro 15"), "precio": lit("1200.50"), "razon": lit("Recomendado por perfil")},
		)

	case strings.Contains(query, "presupuestoMaximo"):
		return resultsJSON([]string{"producto", "nombre", "precio"},
			binding{"producto": iri("Laptop_2"), "nombre": lit("Laptop Air 13"), "precio": lit("950.00")},
			binding{"producto": iri("Telefono_1"), "nombre": lit("Telefono X"), "precio": lit("600.00")},
		)

	case strings.Contains(query, "GROUP BY ?categoria"):
		return resultsJSON([]string{"categoria", "precioMinimo", "precioMaximo", "precioPromedio", "totalProductos"},
			binding{
				"categoria": iri("Laptop"), "precioMinimo": lit("950.00"), "precioMaximo": lit("1200.50"),
				"precioPromedio": lit("1075.25"), "totalProductos": lit("2"),
			},
			binding{
				"categoria": iri("Telefono"), "precioMinimo": lit("600.00"), "precioMaximo": lit("600.00"),
				"precioPromedio": lit("600.00"), "totalProductos": lit("1"),
			},
		)

	case strings.Contains(query, "GROUP BY ?vendedor"):
		return resultsJSON([]string{"vendedor", "totalProductos", "precioPromedio", "precioMinimo", "precioMaximo"},
			binding{
				"vendedor": lit("TechMundo"), "totalProductos": lit("2"), "precioPromedio": lit("1075.25"),
				"precioMinimo": lit("950.00"), "precioMaximo": lit("1200.50"),
			},
		)

	case strings.Contains(query, "GROUP BY ?marca"):
		return resultsJSON([]string{"marca", "totalProductos", "precioPromedio"},
			binding{"marca": lit("Lenovo"), "totalProductos": lit("1"), "precioPromedio": lit("1200.50")},
			binding{"marca": lit("HP"), "totalProductos": lit("1"), "precioPromedio": lit("950.00")},
		)

	case strings.Contains(query, "ORDER BY ?nombre"):
		return resultsJSON([]string{"producto", "nombre", "precio", "descripcion", "stock", "marca", "vendedor"},
			binding{
				"producto": iri("Laptop_2"), "nombre": lit("Laptop Air 13"), "precio": lit("950.00"),
				"marca": lit("HP"), "vendedor": lit("CompuGlobal"),
			},
			binding{
				"producto": iri("Laptop_1"), "nombre": lit("Laptop Pro 15"), "precio": lit("1200.50"),
				"descripcion": lit("Portatil profesional"), "stock": lit("5"),
				"marca": lit("Lenovo"), "vendedor": lit("TechMundo"),
			},
			binding{
				"producto": iri("Telefono_1"), "nombre": lit("Telefono X"), "precio": lit("600.00"),
				"marca": lit("Samsung"), "vendedor": lit("TechMundo"),
			},
		)

	case strings.Contains(query, "ORDER BY ?precio"):
		return resultsJSON([]string{"producto", "nombre", "precio", "categoria", "marca", "vendedor"},
			binding{
				"producto": iri("Laptop_2"), "nombre": lit("Laptop Air 13"), "precio": lit("950.00"),
				"categoria": iri("Laptop"), "marca": lit("HP"), "vendedor": lit("CompuGlobal"),
			},
		)

	default:
		// Health probe and anything unrecognized.
		return resultsJSON([]string{"s"}, binding{"s": iri("Laptop_1")})
	}
}

func (fs *fakeStore) productProperties(query string) []byte {
	ns := sparql.BaseOntologyURI
	prop := func(name, value string) binding {
		return binding{"propiedad": term{"type": "uri", "value": ns + name}, "valor": lit(value)}
	}

	m := productByIDPattern.FindStringSubmatch(query)
	if m == nil {
		return resultsJSON([]string{"propiedad", "valor"})
	}
	switch m[1] {
	case "Laptop_1":
		return resultsJSON([]string{"propiedad", "valor"},
			prop("tieneNombre", "Laptop Pro 15"),
			prop("tienePrecio", "1200.50"),
			prop("tieneDescripcion", "Portatil profesional"),
			prop("tieneStock", "5"),
			prop("tieneRAM_GB", "16"),
		)
	case "Laptop_2":
		return resultsJSON([]string{"propiedad", "valor"},
			prop("tieneNombre", "Laptop Air 13"),
			prop("tienePrecio", "950.00"),
			prop("tieneRAM_GB", "8"),
		)
	default:
		return resultsJSON([]string{"propiedad", "valor"})
	}
}

// ---------------------------------------------------------------------------
// Environment bootstrap
// ---------------------------------------------------------------------------

// staticSchema stands in for the loaded ontology: a flat set of classes,
// each a direct subclass of Producto.
type staticSchema map[string]bool

func (s staticSchema) HasClass(name string) bool { return s[name] }

func (s staticSchema) IsSubclassOf(child, ancestor string) bool {
	return s[child] && (child == ancestor || ancestor == "Producto")
}

// TestEnv bundles the bootstrapped stack. Store exposes the recorded
// SPARQL traffic; ReasonerRuns reports how many inference runs the
// freshness controller triggered.
type TestEnv struct {
	API          *client.Client
	Store        *fakeStore
	ReasonerRuns func() int
}

// SetupTestEnvironment wires the full production object graph: real SPARQL
// client, freshness controller, all four application services, the HTTP
// router, and the REST client pointed at it. Everything is torn down with
// the test.
func SetupTestEnvironment(t *testing.T) *TestEnv {
	t.Helper()

	store := newFakeStore(t)
	log := logging.NewNopLogger()

	exec, err := sparql.NewClient(sparql.ClientConfig{
		Endpoint:   store.srv.URL,
		Repository: "integration",
		Timeout:    5 * time.Second,
	}, log)
	require.NoError(t, err)

	metrics := prometheus.New()

	var runs atomic.Int32
	ctrl := reasoner.NewController(reasoner.RunnerFunc(func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}), reasoner.Config{TTL: time.Minute}, metrics, log)

	schema := staticSchema{"Producto": true, "Laptop": true, "Telefono": true}
	productSvc := product.NewService(exec, ctrl, schema, metrics, log)
	comparisonSvc := comparison.NewService(exec, productSvc, metrics, log)
	recommendationSvc := recommendation.NewService(exec, ctrl, nil, metrics, log)
	analysisSvc := analysis.NewService(exec, metrics, log)

	router := apihttp.NewRouter(apihttp.RouterConfig{
		ProductHandler:        handlers.NewProductHandler(productSvc),
		ComparisonHandler:     handlers.NewComparisonHandler(comparisonSvc),
		RecommendationHandler: handlers.NewRecommendationHandler(recommendationSvc),
		AnalysisHandler:       handlers.NewAnalysisHandler(analysisSvc),
		HealthHandler:         handlers.NewHealthHandler("integration-test"),
		Logger:                log,
		Metrics:               metrics,
	})

	apiSrv := httptest.NewServer(router)
	t.Cleanup(apiSrv.Close)

	api, err := client.NewClient(apiSrv.URL)
	require.NoError(t, err)

	return &TestEnv{
		API:          api,
		Store:        store,
		ReasonerRuns: func() int { return int(runs.Load()) },
	}
}
