package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-counsellor-be/internal/constant"
	"ai-counsellor-be/internal/dto"
	"ai-counsellor-be/internal/pkg/logger"
	"ai-counsellor-be/internal/repository/memory"
	"ai-counsellor-be/pkg/llm"
)

// maxEnriched caps how many search hits get the AI enrichment pass.
const maxEnriched = 10

type IUniversityService interface {
	Search(ctx context.Context, name, country string, enrich bool) (*dto.UniversitySearchResponse, error)
}

type universityService struct {
	searchURL string
	client    *http.Client
	cache     *memory.SearchCache
	provider  llm.Provider
	model     string
	log       logger.ILogger
}

func NewUniversityService(searchURL string, cache *memory.SearchCache, provider llm.Provider, model string, log logger.ILogger) IUniversityService {
	return &universityService{
		searchURL: searchURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		cache:     cache,
		provider:  provider,
		model:     model,
		log:       log,
	}
}

func (s *universityService) Search(ctx context.Context, name, country string, enrich bool) (*dto.UniversitySearchResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" && strings.TrimSpace(country) == "" {
		return nil, errors.New("provide a university name or a country to search")
	}

	results, found := s.cache.Get(name, country)
	if !found {
		fetched, err := s.fetchDirectory(ctx, name, country)
		if err != nil {
			return nil, err
		}
		results = fetched
		s.cache.Save(name, country, results)
	}

	if len(results) > maxEnriched {
		results = results[:maxEnriched]
	}

	details := make([]dto.UniversityDetail, 0, len(results))
	for _, r := range results {
		detail := dto.UniversityDetail{Name: r.Name, Country: r.Country}
		if len(r.WebPages) > 0 {
			detail.Website = r.WebPages[0]
		}
		details = append(details, detail)
	}

	enriched := false
	if enrich && len(details) > 0 {
		if withFacts, err := s.enrich(ctx, details); err == nil {
			details = withFacts
			enriched = true
		} else {
			s.log.Warn("university", "enrichment failed, returning directory data", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.UniversitySearchResponse{
		Results:  details,
		Total:    len(details),
		Enriched: enriched,
	}, nil
}

func (s *universityService) fetchDirectory(ctx context.Context, name, country string) ([]dto.UniversitySearchResult, error) {
	params := url.Values{}
	if name != "" {
		params.Set("name", name)
	}
	if country != "" {
		params.Set("country", country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("university directory unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("university directory returned status %d", resp.StatusCode)
	}

	var results []dto.UniversitySearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("university directory payload unparseable: %w", err)
	}
	return results, nil
}

func (s *universityService) enrich(ctx context.Context, details []dto.UniversityDetail) ([]dto.UniversityDetail, error) {
	names := make([]string, 0, len(details))
	for _, d := range details {
		names = append(names, d.Name)
	}

	resp, err := s.provider.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: constant.EnrichmentSystemPrompt},
			{Role: "user", Content: strings.Join(names, "\n")},
		},
		Temperature: 0.3,
		Model:       s.model,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	// The model may wrap the array in an object; accept both shapes.
	var enriched []dto.UniversityDetail
	if err := json.Unmarshal([]byte(resp.Text), &enriched); err != nil {
		var wrapped struct {
			Results      []dto.UniversityDetail `json:"results"`
			Universities []dto.UniversityDetail `json:"universities"`
		}
		if err := json.Unmarshal([]byte(resp.Text), &wrapped); err != nil {
			return nil, err
		}
		enriched = wrapped.Results
		if len(enriched) == 0 {
			enriched = wrapped.Universities
		}
	}
	if len(enriched) == 0 {
		return nil, errors.New("enrichment payload was empty")
	}

	// Merge by name; keep the directory record when the model skipped one.
	byName := make(map[string]dto.UniversityDetail, len(enriched))
	for _, e := range enriched {
		byName[strings.ToLower(e.Name)] = e
	}
	out := make([]dto.UniversityDetail, 0, len(details))
	for _, d := range details {
		if e, ok := byName[strings.ToLower(d.Name)]; ok {
			if e.Website == "" {
				e.Website = d.Website
			}
			if e.Country == "" {
				e.Country = d.Country
			}
			out = append(out, e)
		} else {
			out = append(out, d)
		}
	}
	return out, nil
}
