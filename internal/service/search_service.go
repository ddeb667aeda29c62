package service

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/reverbhq/reverb/internal/model"
)

// SearchService maintains the posts search index. Only content-bearing
// items are indexed: originals, quotes and comment reposts. Plain reposts
// carry no text of their own.
type SearchService interface {
	IndexPost(post *model.Post) error
	DeletePost(id string) error
	DeleteByOriginalPost(id string) error
	SearchPosts(query string, page, limit int) ([]SearchHit, int64, error)
}

type SearchHit struct {
	ID           string `json:"id"`
	Body         string `json:"body"`
	Relationship string `json:"relationship"`
	Username     string `json:"username"`
	CreatedAt    int64  `json:"created_at"`
}

type meiliPostDoc struct {
	ID             string `json:"id"`
	Body           string `json:"body"`
	Relationship   string `json:"relationship"`
	OriginalPostID string `json:"original_post_id"`
	Username       string `json:"username"`
	AvatarURL      string `json:"avatar_url"`
	CreatedAt      int64  `json:"created_at"`
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"relationship", "original_post_id"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index("posts").UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update posts filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	if _, err := s.client.Index("posts").UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update posts sortable attributes: %v", err)
	}
}

func (s *meiliSearchService) cleanBodyForIndex(body string) string {
	sanitized := s.sanitizer.Sanitize(body)
	cleanText := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexPost(post *model.Post) error {
	if post.Relationship == model.RelationshipRepost {
		return nil
	}

	doc := meiliPostDoc{
		ID:           post.ID.String(),
		Body:         s.cleanBodyForIndex(post.Body),
		Relationship: post.Relationship,
		Username:     post.Author.Username,
		AvatarURL:    getStringOrEmpty(post.Author.AvatarURL),
		CreatedAt:    post.CreatedAt.Unix(),
	}
	if post.OriginalPostID != nil {
		doc.OriginalPostID = post.OriginalPostID.String()
	}

	task, err := s.client.Index("posts").AddDocuments([]meiliPostDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed post %s, task id: %d", post.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeletePost(id string) error {
	_, err := s.client.Index("posts").DeleteDocument(id)
	return err
}

// DeleteByOriginalPost drops the quotes derived from a deleted original so
// the index does not keep hits for content the cascade removed.
func (s *meiliSearchService) DeleteByOriginalPost(id string) error {
	filter := fmt.Sprintf("original_post_id = %q", id)
	_, err := s.client.Index("posts").DeleteDocumentsByFilter(filter)
	return err
}

func (s *meiliSearchService) SearchPosts(query string, page, limit int) ([]SearchHit, int64, error) {
	resp, err := s.client.Index("posts").Search(query, &meilisearch.SearchRequest{
		Offset: int64((page - 1) * limit),
		Limit:  int64(limit),
		Sort:   []string{"created_at:desc"},
	})
	if err != nil {
		return nil, 0, err
	}

	hits := make([]SearchHit, 0, len(resp.Hits))
	for _, raw := range resp.Hits {
		payload, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		var hit SearchHit
		if err := json.Unmarshal(payload, &hit); err != nil {
			continue
		}
		hits = append(hits, hit)
	}
	return hits, resp.EstimatedTotalHits, nil
}

func getStringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
