package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

// Term is one RDF term in a binding row, as delivered by the SPARQL JSON
// results format.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// Row maps variable names to terms. Absent variables are simply missing
// keys; the binder treats them as optional fields.
type Row map[string]Term

// ResultSet is the decoded body of a SELECT response.
type ResultSet struct {
	Vars []string
	Rows []Row
}

// QueryExecutor is the narrow contract the application layer depends on.
// The inference flag asks the store to include entailed triples computed by
// the attached reasoner.
type QueryExecutor interface {
	Select(ctx context.Context, query string, inference bool) (*ResultSet, error)
}

// ClientConfig holds the GraphDB/Stardog repository endpoint parameters.
type ClientConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	Repository string        `mapstructure:"repository"`
	Username   string        `mapstructure:"username"`
	Password   string        `mapstructure:"password"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Client executes SPARQL SELECT queries over the store's HTTP protocol.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	queryURL   string
	username   string
	password   string
	logger     logging.Logger
}

// NewClient builds a Client for the repository named in cfg. The query URL
// follows the RDF4J convention used by GraphDB: <endpoint>/repositories/<repo>.
func NewClient(cfg ClientConfig, logger logging.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.InvalidParam("sparql endpoint must not be empty")
	}
	if cfg.Repository == "" {
		return nil, errors.InvalidParam("sparql repository must not be empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	base := strings.TrimRight(cfg.Endpoint, "/")
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		queryURL:   fmt.Sprintf("%s/repositories/%s", base, cfg.Repository),
		username:   cfg.Username,
		password:   cfg.Password,
		logger:     logger.Named("sparql.client"),
	}, nil
}

// sparqlJSONResponse mirrors the application/sparql-results+json envelope.
type sparqlJSONResponse struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Row `json:"bindings"`
	} `json:"results"`
}

// Select executes a SELECT query. Network-level failures surface as
// connection errors; non-2xx responses and undecodable bodies surface as
// query errors. Cancellation and the configured timeout are honored through
// ctx and the underlying http.Client; no retry happens here.
func (c *Client) Select(ctx context.Context, query string, inference bool) (*ResultSet, error) {
	target := c.queryURL + "?" + url.Values{"infer": {fmt.Sprintf("%t", inference)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(query))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSPARQLQuery, "failed to build sparql request")
	}
	req.Header.Set("Content-Type", "application/sparql-query")
	req.Header.Set("Accept", "application/sparql-results+json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("sparql endpoint unreachable", logging.Err(err))
		return nil, errors.Wrap(err, errors.CodeSPARQLConnection, "sparql endpoint unreachable").
			WithDetailf("url=%s", c.queryURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Error("sparql query rejected",
			logging.Int("status", resp.StatusCode),
			logging.String("body", string(body)),
		)
		return nil, errors.Newf(errors.CodeSPARQLQuery, "sparql query failed with status %d", resp.StatusCode).
			WithDetail(string(body))
	}

	var decoded sparqlJSONResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, errors.CodeSPARQLQuery, "failed to decode sparql results")
	}

	c.logger.Debug("sparql query executed",
		logging.Bool("inference", inference),
		logging.Int("rows", len(decoded.Results.Bindings)),
		logging.Duration("elapsed", time.Since(start)),
	)

	return &ResultSet{
		Vars: decoded.Head.Vars,
		Rows: decoded.Results.Bindings,
	}, nil
}
