// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"finops-assessment/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchClient holds the results index connection. A nil client
// means indexing is off.
type ElasticsearchClient struct {
	Client *elasticsearch.Client
	Index  string
}

// NewElasticsearch returns nil, nil when no addresses are configured.
// transport may be nil.
func NewElasticsearch(cfg config.ElasticsearchConfig, transport http.RoundTripper) (*ElasticsearchClient, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	esCfg := elasticsearch.Config{
		Addresses:  cfg.Addresses,
		Transport:  transport,
		MaxRetries: 2,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es, Index: cfg.Index}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}
