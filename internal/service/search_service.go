package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/model"
)

// CourseSearchService indexes the course catalog for full-text search.
// A nil service is valid and means search falls back to the store.
type CourseSearchService interface {
	IndexCourse(course *model.Course) error
	DeleteCourse(id uuid.UUID) error
	Search(filter dto.CourseFilter) ([]uuid.UUID, int64, error)
}

type courseSearchService struct {
	client meilisearch.ServiceManager
}

func NewCourseSearchService(client meilisearch.ServiceManager) CourseSearchService {
	s := &courseSearchService{client: client}
	s.initIndex()
	return s
}

func (s *courseSearchService) initIndex() {
	filterable := []any{"category", "level", "instructor_id", "is_published"}
	if _, err := s.client.Index("courses").UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("failed to update courses filterable attributes: %v", err)
	}

	sortable := []string{"created_at", "price", "rating_average"}
	if _, err := s.client.Index("courses").UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("failed to update courses sortable attributes: %v", err)
	}
}

type courseDoc struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Level        string   `json:"level"`
	Language     string   `json:"language"`
	Tags         []string `json:"tags"`
	InstructorID string   `json:"instructor_id"`
	IsPublished  bool     `json:"is_published"`
	Price        float64  `json:"price"`
	RatingAvg    float64  `json:"rating_average"`
	CreatedAt    int64    `json:"created_at"`
}

func (s *courseSearchService) IndexCourse(course *model.Course) error {
	doc := courseDoc{
		ID:           course.ID.String(),
		Title:        course.Title,
		Description:  course.Description,
		Category:     course.Category,
		Level:        course.Level,
		Language:     course.Language,
		Tags:         course.Tags,
		InstructorID: course.InstructorID.String(),
		IsPublished:  course.IsPublished,
		Price:        course.Price,
		RatingAvg:    course.RatingAverage,
		CreatedAt:    course.CreatedAt.Unix(),
	}

	primaryKey := "id"
	_, err := s.client.Index("courses").AddDocuments([]courseDoc{doc}, &primaryKey)
	return err
}

func (s *courseSearchService) DeleteCourse(id uuid.UUID) error {
	_, err := s.client.Index("courses").DeleteDocument(id.String())
	return err
}

func (s *courseSearchService) Search(filter dto.CourseFilter) ([]uuid.UUID, int64, error) {
	var clauses []string
	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = %q", filter.Category))
	}
	if filter.Level != "" {
		clauses = append(clauses, fmt.Sprintf("level = %q", filter.Level))
	}
	if filter.Instructor != "" {
		clauses = append(clauses, fmt.Sprintf("instructor_id = %q", filter.Instructor))
	}
	if filter.IsPublished != nil {
		clauses = append(clauses, fmt.Sprintf("is_published = %t", *filter.IsPublished))
	}

	req := &meilisearch.SearchRequest{
		Limit:  int64(filter.Limit),
		Offset: int64(filter.Offset()),
	}
	if len(clauses) > 0 {
		req.Filter = strings.Join(clauses, " AND ")
	}

	resp, err := s.client.Index("courses").Search(filter.Q, req)
	if err != nil {
		return nil, 0, err
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, 0, err
	}
	var docs []courseDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, resp.EstimatedTotalHits, nil
}
