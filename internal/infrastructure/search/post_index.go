// Package search keeps an Elasticsearch index of posts for full text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/pkg/helpers"
)

const requestTimeout = 3 * time.Second

type PostIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewPostIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *PostIndex {
	return &PostIndex{ES: es, Index: index, Logger: logger}
}

type postDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	AuthorID    string `json:"author_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func docFor(p *entity.Post) postDoc {
	d := postDoc{
		ID:        p.ID,
		Title:     p.Title,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	return d
}

const postMappings = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "title":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "description": {"type": "text"},
      "author_id":   {"type": "keyword"},
      "created_at":  {"type": "date"},
      "updated_at":  {"type": "date"}
    }
  }
}`

// EnsureIndex creates the posts index with its mappings when missing.
func (x *PostIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, 2*requestTimeout)
	defer cancel()
	created, err := helpers.ESEnsureIndex(c, x.ES, x.Index, []byte(postMappings))
	if err != nil {
		return err
	}
	if created && x.Logger != nil {
		x.Logger.WithField("index", x.Index).Info("created search index")
	}
	return nil
}

// Put indexes (or replaces) the document for p.
func (x *PostIndex) Put(ctx context.Context, p *entity.Post) error {
	b, err := json.Marshal(docFor(p))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es index post %s: %w", p.ID, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index post %s: %s", p.ID, res.Status())
	}
	return nil
}

// Remove drops the document for id. A missing document is not an error.
func (x *PostIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es delete post %s: %w", id, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete post %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a multi_match over title and description and returns matching
// post ids by relevance.
func (x *PostIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description"},
			},
		},
		"size":    size,
		"_source": false,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if res.StatusCode == 404 {
			// index not created yet
			return []string{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.ID)
	}
	return out, nil
}
