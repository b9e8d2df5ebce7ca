package library

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// SearchIndex provides full-text search over saved prompts.
type SearchIndex struct {
	index bleve.Index
	path  string
}

// NewSearchIndex creates or opens the index next to the library database.
// A corrupted index is deleted and rebuilt empty rather than failing the
// open.
func NewSearchIndex(dbPath string) (*SearchIndex, error) {
	indexPath := dbPath + ".bleve"

	index, err := bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create search index: %w", err)
		}
	} else if err != nil {
		if index != nil {
			index.Close()
		}
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("failed to remove corrupted search index: %w", err)
		}
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to recreate search index: %w", err)
		}
	}

	return &SearchIndex{index: index, path: indexPath}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()

	// Exact-match fields
	userIDField := bleve.NewTextFieldMapping()
	userIDField.Analyzer = keyword.Name
	userIDField.Store = true
	userIDField.Index = true
	docMapping.AddFieldMappingsAt("user_id", userIDField)

	tierField := bleve.NewTextFieldMapping()
	tierField.Analyzer = keyword.Name
	tierField.Store = true
	tierField.Index = true
	docMapping.AddFieldMappingsAt("tier", tierField)

	// Searchable text fields
	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name
	titleField.Store = true
	titleField.Index = true
	docMapping.AddFieldMappingsAt("title", titleField)

	promptField := bleve.NewTextFieldMapping()
	promptField.Analyzer = standard.Name
	promptField.Store = false
	promptField.Index = true
	docMapping.AddFieldMappingsAt("prompt", promptField)

	taskField := bleve.NewTextFieldMapping()
	taskField.Analyzer = standard.Name
	taskField.Store = false
	taskField.Index = true
	docMapping.AddFieldMappingsAt("task_description", taskField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Index adds or replaces a saved prompt in the index.
func (s *SearchIndex) Index(saved *SavedPrompt) error {
	doc := map[string]interface{}{
		"user_id":          saved.UserID,
		"tier":             string(saved.Tier),
		"title":            saved.Title,
		"prompt":           saved.Prompt,
		"task_description": saved.Input.TaskDescription,
	}
	return s.index.Index(saved.ID, doc)
}

// Delete removes a saved prompt from the index.
func (s *SearchIndex) Delete(id string) error {
	return s.index.Delete(id)
}

// Search returns the top k hits for a query, scoped to one user.
func (s *SearchIndex) Search(query, userID string, k int) ([]SearchResult, error) {
	q := bleve.NewMatchQuery(query)

	userQuery := bleve.NewTermQuery(userID)
	userQuery.SetField("user_id")

	combined := bleve.NewConjunctionQuery(q, userQuery)

	searchRequest := bleve.NewSearchRequest(combined)
	searchRequest.Size = k
	searchRequest.Fields = []string{"title"}

	searchResult, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("library search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		result := SearchResult{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if title, ok := hit.Fields["title"].(string); ok {
			result.Title = title
		}
		results = append(results, result)
	}
	return results, nil
}

// Close closes the underlying index.
func (s *SearchIndex) Close() error {
	return s.index.Close()
}
