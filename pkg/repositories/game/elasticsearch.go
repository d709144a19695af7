package game

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/blackjacktrainer/internal/logging"
	"github.com/fadedpez/blackjacktrainer/pkg/entities"
)

const (
	indexDateLayout  = "2006-01"
	defaultPageSize  = 100
	roundIndexSuffix = "_rounds_"
)

const roundMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"session_id": { "type": "keyword" },
			"player_id": { "type": "keyword" },
			"started_at": { "type": "date" },
			"completed_at": { "type": "date" },
			"dealer_cards": { "type": "keyword" },
			"dealer_score": { "type": "integer" },
			"running_count": { "type": "integer" },
			"cards_dealt": { "type": "integer" },
			"hands": {
				"type": "nested",
				"properties": {
					"cards": { "type": "keyword" },
					"score": { "type": "integer" },
					"bet": { "type": "long" },
					"result": { "type": "keyword" },
					"payout": { "type": "long" },
					"doubled": { "type": "boolean" },
					"from_split": { "type": "boolean" },
					"actions": { "type": "keyword" },
					"mistakes": { "type": "integer" }
				}
			}
		}
	}
}`

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL             string
	Username        string
	Password        string
	IndexPrefix     string
	RetentionPeriod time.Duration     // How long monthly round indices are kept
	RotationPeriod  time.Duration     // How often the maintenance task checks for a new month
	Transport       http.RoundTripper // optional, replaces the HTTP transport
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:             "http://localhost:9200",
		IndexPrefix:     "blackjacktrainer",
		RetentionPeriod: 365 * 24 * time.Hour,
		RotationPeriod:  24 * time.Hour,
	}
}

// ElasticsearchRepository decorates another Repository: everything is stored
// in the base repository and settled rounds are additionally indexed into
// monthly indices, which back the player history search.
type ElasticsearchRepository struct {
	baseRepo    Repository
	client      *elasticsearch.Client
	config      *ElasticsearchConfig
	indexPrefix string
	logger      *logging.Logger
	now         func() time.Time

	mu                sync.Mutex
	currentRoundIndex string
}

// NewElasticsearchRepository creates the client and makes sure this month's
// round index exists
func NewElasticsearchRepository(baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}

	// Add authentication if provided
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	defaults := DefaultElasticsearchConfig()
	if config.IndexPrefix == "" {
		config.IndexPrefix = defaults.IndexPrefix
	}
	if config.RetentionPeriod == 0 {
		config.RetentionPeriod = defaults.RetentionPeriod
	}
	if config.RotationPeriod == 0 {
		config.RotationPeriod = defaults.RotationPeriod
	}

	repo := &ElasticsearchRepository{
		baseRepo:    baseRepo,
		client:      client,
		config:      config,
		indexPrefix: config.IndexPrefix,
		logger:      logging.Default,
		now:         time.Now,
	}

	if err := repo.rotateIndices(context.Background()); err != nil {
		return nil, fmt.Errorf("error initializing indices: %w", err)
	}

	return repo, nil
}

// roundIndexName returns the monthly index a round completed at t belongs to
func (r *ElasticsearchRepository) roundIndexName(t time.Time) string {
	return r.indexPrefix + roundIndexSuffix + t.UTC().Format(indexDateLayout)
}

// rotateIndices switches to the current month's index, creating it if needed
func (r *ElasticsearchRepository) rotateIndices(ctx context.Context) error {
	name := r.roundIndexName(r.now())

	r.mu.Lock()
	defer r.mu.Unlock()
	if name == r.currentRoundIndex {
		return nil
	}

	if err := r.ensureIndex(ctx, name); err != nil {
		return err
	}
	r.currentRoundIndex = name
	r.logger.Info("Round index is now %s", name)
	return nil
}

func (r *ElasticsearchRepository) ensureIndex(ctx context.Context, name string) error {
	res, err := r.client.Indices.Exists([]string{name}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if index %s exists: %w", name, err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: name,
		Body:  strings.NewReader(roundMapping),
	}
	res, err = req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating index %s: %w", name, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index %s: %s", name, res.String())
	}
	return nil
}

// pruneOldIndices deletes monthly indices whose whole month lies before
// the retention window
func (r *ElasticsearchRepository) pruneOldIndices(ctx context.Context) error {
	indices, err := r.GetIndices(ctx, r.indexPrefix+roundIndexSuffix+"*")
	if err != nil {
		return err
	}

	cutoff := r.now().Add(-r.config.RetentionPeriod)
	var expired []string
	for _, name := range indices {
		month, err := time.Parse(indexDateLayout, strings.TrimPrefix(name, r.indexPrefix+roundIndexSuffix))
		if err != nil {
			r.logger.Warn("Skipping index with unexpected name %s", name)
			continue
		}
		if month.AddDate(0, 1, 0).Before(cutoff) {
			expired = append(expired, name)
		}
	}
	if len(expired) == 0 {
		return nil
	}

	res, err := r.client.Indices.Delete(expired, r.client.Indices.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error deleting indices: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error deleting indices: %s", res.String())
	}
	r.logger.Info("Pruned %d expired round indices", len(expired))
	return nil
}

// IndexRound indexes a settled round, keyed by its ID so a retry overwrites
func (r *ElasticsearchRepository) IndexRound(ctx context.Context, round *entities.RoundRecord) error {
	if err := r.rotateIndices(ctx); err != nil {
		return fmt.Errorf("error rotating indices: %w", err)
	}

	jsonData, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("error marshaling round: %w", err)
	}

	r.mu.Lock()
	index := r.currentRoundIndex
	r.mu.Unlock()

	res, err := r.client.Index(
		index,
		bytes.NewReader(jsonData),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(round.ID),
		r.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("error indexing round: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing round: %s", res.String())
	}
	return nil
}

// SaveRound stores the round in the base repository, then indexes it. Once
// the base repository has the round an indexing failure is only logged.
func (r *ElasticsearchRepository) SaveRound(ctx context.Context, round *entities.RoundRecord) error {
	if err := r.baseRepo.SaveRound(ctx, round); err != nil {
		return fmt.Errorf("error saving round to base repository: %w", err)
	}
	if err := r.IndexRound(ctx, round); err != nil {
		r.logger.Warn("Round %s was stored but indexing failed: %v", round.ID, err)
	}
	return nil
}

// GetPlayerRounds searches the round indices. When the search fails the
// base repository answers instead.
func (r *ElasticsearchRepository) GetPlayerRounds(ctx context.Context, playerID string, limit int) ([]*entities.RoundRecord, error) {
	rounds, err := r.searchPlayerRounds(ctx, playerID, limit)
	if err != nil {
		r.logger.Warn("Round search failed, falling back to base repository: %v", err)
		return r.baseRepo.GetPlayerRounds(ctx, playerID, limit)
	}
	return rounds, nil
}

// searchPlayerRounds returns the newest limit rounds, or every round when
// limit <= 0 by following search_after one page at a time
func (r *ElasticsearchRepository) searchPlayerRounds(ctx context.Context, playerID string, limit int) ([]*entities.RoundRecord, error) {
	pageSize := limit
	if limit <= 0 {
		pageSize = defaultPageSize
	}

	rounds := make([]*entities.RoundRecord, 0, pageSize)
	var after json.RawMessage
	for {
		page, last, err := r.searchRoundsPage(ctx, playerID, pageSize, after)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, page...)

		if limit > 0 || len(page) < pageSize || last == nil {
			return rounds, nil
		}
		after = last
	}
}

// searchRoundsPage fetches one page of a player's rounds, newest first, and
// the sort values of its last hit
func (r *ElasticsearchRepository) searchRoundsPage(ctx context.Context, playerID string, size int, after json.RawMessage) ([]*entities.RoundRecord, json.RawMessage, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{"player_id": playerID},
		},
		"sort": []interface{}{
			map[string]interface{}{"completed_at": map[string]string{"order": "desc"}},
			map[string]interface{}{"id": map[string]string{"order": "desc"}},
		},
	}
	if after != nil {
		query["search_after"] = after
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, nil, fmt.Errorf("error encoding query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.indexPrefix+roundIndexSuffix+"*"),
		r.client.Search.WithBody(bytes.NewReader(body)),
		r.client.Search.WithSize(size),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("error searching for player rounds: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, nil, fmt.Errorf("error searching for player rounds: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source entities.RoundRecord `json:"_source"`
				Sort   json.RawMessage      `json:"sort"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, nil, fmt.Errorf("error parsing player rounds: %w", err)
	}

	hits := result.Hits.Hits
	rounds := make([]*entities.RoundRecord, 0, len(hits))
	for i := range hits {
		rounds = append(rounds, &hits[i].Source)
	}
	if len(hits) == 0 {
		return rounds, nil, nil
	}
	return rounds, hits[len(hits)-1].Sort, nil
}

// GetSessionRounds reads from the base repository
func (r *ElasticsearchRepository) GetSessionRounds(ctx context.Context, sessionID string) ([]*entities.RoundRecord, error) {
	return r.baseRepo.GetSessionRounds(ctx, sessionID)
}

// ListPlayers reads from the base repository
func (r *ElasticsearchRepository) ListPlayers(ctx context.Context) ([]string, error) {
	return r.baseRepo.ListPlayers(ctx)
}

// SaveShoe stores the shoe in the base repository only
func (r *ElasticsearchRepository) SaveShoe(ctx context.Context, playerID string, shoe []*entities.Card) error {
	return r.baseRepo.SaveShoe(ctx, playerID, shoe)
}

// GetShoe reads from the base repository
func (r *ElasticsearchRepository) GetShoe(ctx context.Context, playerID string) ([]*entities.Card, error) {
	return r.baseRepo.GetShoe(ctx, playerID)
}

// Close closes the base repository; the HTTP client holds nothing to release
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}

// RotateIndices checks if it's time to rotate the indices and creates a new time-based index if needed
func (r *ElasticsearchRepository) RotateIndices(ctx context.Context) error {
	return r.rotateIndices(ctx)
}

// PruneOldIndices removes indices that are older than the retention period
func (r *ElasticsearchRepository) PruneOldIndices(ctx context.Context) error {
	return r.pruneOldIndices(ctx)
}

// GetIndices returns a list of indices that match the given pattern
func (r *ElasticsearchRepository) GetIndices(ctx context.Context, pattern string) ([]string, error) {
	res, err := r.client.Indices.Get(
		[]string{pattern},
		r.client.Indices.Get.WithContext(ctx),
		r.client.Indices.Get.WithExpandWildcards("open"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get indices: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error getting indices: %s", res.String())
	}

	var indices map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&indices); err != nil {
		return nil, fmt.Errorf("error parsing indices response: %w", err)
	}

	indexNames := make([]string, 0, len(indices))
	for name := range indices {
		indexNames = append(indexNames, name)
	}
	return indexNames, nil
}

// GetConfig returns the repository configuration
func (r *ElasticsearchRepository) GetConfig() ElasticsearchConfig {
	return *r.config
}

// GetIndexPrefix returns the index prefix used by the repository
func (r *ElasticsearchRepository) GetIndexPrefix() string {
	return r.indexPrefix
}
