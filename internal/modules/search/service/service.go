package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"anoa.com/vxrank/internal/entity"
	catalogService "anoa.com/vxrank/internal/modules/catalog/service"
	"anoa.com/vxrank/pkg/apperror"
	"github.com/meilisearch/meilisearch-go"
)

const (
	tricksIndex  = "tricks"
	DefaultLimit = 20
)

// TrickHit is one search result.
type TrickHit struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Sport           string `json:"sport"`
	Rank            string `json:"rank"`
	RankIndex       int    `json:"rank_index"`
	DifficultyScore int    `json:"difficulty_score"`
}

type TrickSearchService interface {
	// ReindexCatalog pushes every catalog trick to the search index.
	ReindexCatalog(ctx context.Context) (int, error)
	SearchTricks(ctx context.Context, query, sport string, limit int) ([]TrickHit, error)
}

type trickSearchService struct {
	client  meilisearch.ServiceManager
	catalog *catalogService.Catalog
}

// NewTrickSearchService searches through meilisearch. A nil client searches
// the in-memory catalog instead.
func NewTrickSearchService(client meilisearch.ServiceManager, catalog *catalogService.Catalog) TrickSearchService {
	s := &trickSearchService{client: client, catalog: catalog}
	if client != nil {
		s.initIndex()
	}
	return s
}

func (s *trickSearchService) initIndex() {
	filterable := []any{"sport", "rank"}
	if _, err := s.client.Index(tricksIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("Failed to update tricks filterable attributes: %v", err)
	}

	sortable := []string{"rank_index", "difficulty_score"}
	if _, err := s.client.Index(tricksIndex).UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("Failed to update tricks sortable attributes: %v", err)
	}

	log.Println("Meilisearch tricks index initialized")
}

// Documents flattens the catalog into one document per sport and trick.
func Documents(catalog *catalogService.Catalog) []TrickHit {
	var docs []TrickHit
	for _, sport := range entity.AllSports() {
		slug := strings.ToLower(strings.ReplaceAll(string(sport), " ", "-"))
		for i, t := range catalog.Tricks(sport) {
			docs = append(docs, TrickHit{
				ID:              fmt.Sprintf("%s-%d", slug, i),
				Name:            t.Name,
				Sport:           string(sport),
				Rank:            string(t.Rank),
				RankIndex:       entity.RankIndex(t.Rank),
				DifficultyScore: t.DifficultyScore,
			})
		}
	}
	return docs
}

func (s *trickSearchService) ReindexCatalog(ctx context.Context) (int, error) {
	docs := Documents(s.catalog)
	if s.client == nil {
		return len(docs), nil
	}

	task, err := s.client.Index(tricksIndex).AddDocuments(docs, strPtr("id"))
	if err != nil {
		return 0, fmt.Errorf("index tricks: %w", err)
	}
	log.Printf("🔎 Indexed %d tricks, task id: %d", len(docs), task.TaskUID)
	return len(docs), nil
}

func (s *trickSearchService) SearchTricks(ctx context.Context, query, sport string, limit int) ([]TrickHit, error) {
	if sport != "" && !entity.Sport(sport).Valid() {
		return nil, apperror.Invalid(fmt.Sprintf("unknown sport %q", sport))
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	query = strings.TrimSpace(query)

	if s.client == nil {
		return searchLocal(Documents(s.catalog), query, sport, limit), nil
	}

	req := &meilisearch.SearchRequest{
		Limit: int64(limit),
		Sort:  []string{"rank_index:asc"},
	}
	if sport != "" {
		req.Filter = fmt.Sprintf("sport = %q", sport)
	}

	raw, err := s.client.Index(tricksIndex).SearchRaw(query, req)
	if err != nil {
		return nil, fmt.Errorf("search tricks: %w", err)
	}

	var res struct {
		Hits []TrickHit `json:"hits"`
	}
	if err := json.Unmarshal(*raw, &res); err != nil {
		return nil, err
	}
	return res.Hits, nil
}

// searchLocal matches query as a case-insensitive substring of the name.
func searchLocal(docs []TrickHit, query, sport string, limit int) []TrickHit {
	q := strings.ToLower(query)
	hits := []TrickHit{}
	for _, d := range docs {
		if sport != "" && d.Sport != sport {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(d.Name), q) {
			continue
		}
		hits = append(hits, d)
		if len(hits) == limit {
			break
		}
	}
	return hits
}

func strPtr(s string) *string {
	return &s
}
