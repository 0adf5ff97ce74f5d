// Package search mirrors the catalog into Elasticsearch and answers
// substring queries from it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/models"

	"github.com/elastic/go-elasticsearch/v9"
)

// Config holds the connection details of the search cluster.
type Config struct {
	URL        string
	Username   string
	Password   string
	Index      string
	MaxResults int
}

// ElasticIndex stores one document per product. Title and description are
// indexed as lower-cased keywords so wildcard queries behave like a
// case-insensitive substring match.
type ElasticIndex struct {
	es         *elasticsearch.Client
	index      string
	maxResults int
}

// ErrTooManyHits reports a search whose matches do not fit in one response.
var ErrTooManyHits = errors.New("search matched more products than the result limit")

type document struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

const indexMapping = `{
  "settings": {
    "analysis": {
      "normalizer": {
        "lowercase": {"type": "custom", "filter": ["lowercase"]}
      }
    }
  },
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "title":       {"type": "keyword", "normalizer": "lowercase"},
      "description": {"type": "keyword", "normalizer": "lowercase", "ignore_above": 8191},
      "category":    {"type": "keyword"}
    }
  }
}`

// NewElasticIndex connects to the cluster and checks it answers.
func NewElasticIndex(cfg Config) (*ElasticIndex, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch info: %s", res.Status())
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 1000
	}
	return &ElasticIndex{es: es, index: cfg.Index, maxResults: maxResults}, nil
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (x *ElasticIndex) EnsureIndex(ctx context.Context) error {
	res, err := x.es.Indices.Exists([]string{x.index}, x.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", x.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = x.es.Indices.Create(x.index,
		x.es.Indices.Create.WithContext(ctx),
		x.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", x.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res.Status(), res.Body)
	}
	return nil
}

// Index writes or replaces the document of p.
func (x *ElasticIndex) Index(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(document{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    string(p.Category),
	})
	if err != nil {
		return err
	}
	res, err := x.es.Index(x.index, bytes.NewReader(body),
		x.es.Index.WithContext(ctx),
		x.es.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		x.es.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index product", res.Status(), res.Body)
	}
	return nil
}

// Delete removes the document of product id. A missing document is not an error.
func (x *ElasticIndex) Delete(ctx context.Context, id uint) error {
	res, err := x.es.Delete(x.index, strconv.FormatUint(uint64(id), 10),
		x.es.Delete.WithContext(ctx),
		x.es.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete product", res.Status(), res.Body)
	}
	return nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// Query builds the search body for a substring match on title or
// description, optionally restricted to one category, newest id first.
func Query(query string, category models.Category, size int) map[string]any {
	pattern := "*" + wildcardEscaper.Replace(strings.ToLower(query)) + "*"
	boolQuery := map[string]any{
		"should": []any{
			map[string]any{"wildcard": map[string]any{"title": map[string]any{"value": pattern, "case_insensitive": true}}},
			map[string]any{"wildcard": map[string]any{"description": map[string]any{"value": pattern, "case_insensitive": true}}},
		},
		"minimum_should_match": 1,
	}
	if category != "" {
		boolQuery["filter"] = []any{
			map[string]any{"term": map[string]any{"category": string(category)}},
		}
	}
	return map[string]any{
		"size":    size,
		"_source": false,
		"sort":    []any{map[string]any{"id": "desc"}},
		"query":   map[string]any{"bool": boolQuery},
	}
}

// Search returns the ids of matching products, newest first. It fails with
// ErrTooManyHits rather than return a truncated result.
func (x *ElasticIndex) Search(ctx context.Context, query string, category models.Category) ([]uint, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(Query(query, category, x.maxResults+1)); err != nil {
		return nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := x.es.Search(
		x.es.Search.WithContext(ctx),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search products", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if len(r.Hits.Hits) > x.maxResults {
		return nil, fmt.Errorf("%w (%d)", ErrTooManyHits, x.maxResults)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func responseError(op, status string, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("%s: %s: %s", op, status, bytes.TrimSpace(msg))
}
