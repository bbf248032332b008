package sink

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchutil"

	"github.com/halcyonsec/forge/internal/event"
	"github.com/halcyonsec/forge/internal/metrics"
)

// OpenSearchConfig holds cluster connection and index settings.
type OpenSearchConfig struct {
	URL          string `mapstructure:"url"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Insecure     bool   `mapstructure:"insecure"`
	IndexPrefix  string `mapstructure:"index_prefix"`
	ShardCount   int    `mapstructure:"shard_count"`
	ReplicaCount int    `mapstructure:"replica_count"`
}

// OpenSearch bulk-indexes documents into a per-space alert index.
type OpenSearch struct {
	client *opensearch.Client
	cfg    OpenSearchConfig
	space  string
}

// NewOpenSearch connects to the cluster and verifies it responds.
func NewOpenSearch(cfg OpenSearchConfig, space string) (*OpenSearch, error) {
	if cfg.IndexPrefix == "" {
		cfg.IndexPrefix = "forge-alerts"
	}
	if space == "" {
		space = "default"
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.Insecure,
		},
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	info, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to ping opensearch: %w", err)
	}
	defer info.Body.Close()
	if info.IsError() {
		return nil, fmt.Errorf("opensearch returned error: %s", info.Status())
	}

	return &OpenSearch{client: client, cfg: cfg, space: space}, nil
}

// Name implements Sink.
func (s *OpenSearch) Name() string { return "opensearch" }

// Index returns the space-scoped write index.
func (s *OpenSearch) Index() string {
	return fmt.Sprintf("%s-%s", s.cfg.IndexPrefix, s.space)
}

// EnsureIndex creates the index template and the space index if they do
// not already exist.
func (s *OpenSearch) EnsureIndex(ctx context.Context) error {
	if err := s.putIndexTemplate(ctx); err != nil {
		return fmt.Errorf("failed to create index template: %w", err)
	}
	if err := s.createIndexIfMissing(ctx); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

func (s *OpenSearch) putIndexTemplate(ctx context.Context) error {
	shards := s.cfg.ShardCount
	if shards <= 0 {
		shards = 1
	}
	template := map[string]interface{}{
		"index_patterns": []string{s.cfg.IndexPrefix + "-*"},
		"template": map[string]interface{}{
			"settings": map[string]interface{}{
				"number_of_shards":   shards,
				"number_of_replicas": s.cfg.ReplicaCount,
			},
			"mappings": alertMappings(),
		},
		"priority": 100,
	}

	body, err := json.Marshal(template)
	if err != nil {
		return err
	}

	res, err := s.client.Indices.PutIndexTemplate(
		s.cfg.IndexPrefix+"-template",
		bytes.NewReader(body),
		s.client.Indices.PutIndexTemplate.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		bodyBytes, _ := io.ReadAll(res.Body)
		return fmt.Errorf("%s - %s", res.Status(), string(bodyBytes))
	}
	return nil
}

func (s *OpenSearch) createIndexIfMissing(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(
		[]string{s.Index()},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := s.client.Indices.Create(
		s.Index(),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		bodyBytes, _ := io.ReadAll(res.Body)
		return fmt.Errorf("%s - %s", res.Status(), string(bodyBytes))
	}
	return nil
}

// alertMappings declares the fields the generator always writes; the rest
// of each document is dynamically mapped.
func alertMappings() map[string]interface{} {
	keyword := map[string]interface{}{"type": "keyword"}
	return map[string]interface{}{
		"properties": map[string]interface{}{
			"@timestamp":              map[string]interface{}{"type": "date"},
			"kibana.alert.uuid":       keyword,
			"kibana.alert.severity":   keyword,
			"kibana.alert.rule.name":  keyword,
			"host.name":               keyword,
			"user.name":               keyword,
			"threat.technique.id":     keyword,
			"campaign.id":             keyword,
			"campaign.threat_actor":   keyword,
			"attack_chain.stage_name": keyword,
			"attack_chain.tactic":     keyword,
			"correlation.rule_id":     keyword,
			"message":                 map[string]interface{}{"type": "text"},
		},
	}
}

// Write bulk-indexes the batch.
func (s *OpenSearch) Write(ctx context.Context, events []*event.Event) (*WriteResult, error) {
	start := time.Now()
	result := &WriteResult{}
	var mu sync.Mutex

	bi, err := opensearchutil.NewBulkIndexer(opensearchutil.BulkIndexerConfig{
		Client: s.client,
		Index:  s.Index(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	for _, ev := range events {
		data, err := json.Marshal(ev.Document())
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("failed to marshal event: %v", err))
			continue
		}

		err = bi.Add(ctx, opensearchutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: ev.ID,
			Body:       bytes.NewReader(data),
			OnSuccess: func(ctx context.Context, item opensearchutil.BulkIndexerItem, res opensearchutil.BulkIndexerResponseItem) {
				mu.Lock()
				result.Indexed++
				mu.Unlock()
			},
			OnFailure: func(ctx context.Context, item opensearchutil.BulkIndexerItem, res opensearchutil.BulkIndexerResponseItem, err error) {
				mu.Lock()
				defer mu.Unlock()
				result.Failed++
				if err != nil {
					result.Errors = append(result.Errors, err.Error())
				} else {
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", res.Error.Type, res.Error.Reason))
				}
			},
		})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("failed to add to bulk indexer: %v", err))
		}
	}

	if err := bi.Close(ctx); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("bulk indexer close error: %v", err))
	}

	metrics.DocumentsIndexed.WithLabelValues(s.Name()).Add(float64(result.Indexed))
	if result.Failed > 0 {
		metrics.SinkErrors.WithLabelValues(s.Name()).Add(float64(result.Failed))
	}
	metrics.SinkDuration.WithLabelValues(s.Name()).Observe(time.Since(start).Seconds())
	return result, nil
}

// Close implements Sink; the underlying HTTP client needs no teardown.
func (s *OpenSearch) Close() error { return nil }
