package services

import (
	"log"
	"strconv"

	"github.com/meilisearch/meilisearch-go"
	"github.com/univault/univault-api/internal/config"
	"github.com/univault/univault-api/internal/models"
)

type SearchService struct {
	client *meilisearch.Client
}

func NewSearchService(cfg *config.Config) *SearchService {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   cfg.MeiliURL,
		APIKey: cfg.MeiliAPIKey,
	})

	// Ensure resources index exists (best effort)
	_, err := client.GetIndex("resources")
	if err != nil {
		_, err = client.CreateIndex(&meilisearch.IndexConfig{
			Uid:        "resources",
			PrimaryKey: "id",
		})
		if err != nil {
			log.Printf("Failed to create meilisearch resources index: %v", err)
		}

		_, err = client.Index("resources").UpdateFilterableAttributes(&[]string{"subject_id", "unit_id", "type"})
		if err != nil {
			log.Printf("Failed to update resources filterable attributes: %v", err)
		}

		_, err = client.Index("resources").UpdateSortableAttributes(&[]string{"created_at"})
		if err != nil {
			log.Printf("Failed to update resources sortable attributes: %v", err)
		}
	}

	// Ensure subjects index exists (best effort)
	_, err = client.GetIndex("subjects")
	if err != nil {
		_, err = client.CreateIndex(&meilisearch.IndexConfig{
			Uid:        "subjects",
			PrimaryKey: "id",
		})
		if err != nil {
			log.Printf("Failed to create meilisearch subjects index: %v", err)
		}

		_, err = client.Index("subjects").UpdateFilterableAttributes(&[]string{"semester_id"})
		if err != nil {
			log.Printf("Failed to update subjects filterable attributes: %v", err)
		}

		_, err = client.Index("subjects").UpdateSearchableAttributes(&[]string{"name", "code"})
		if err != nil {
			log.Printf("Failed to update subjects searchable attributes: %v", err)
		}
	}

	return &SearchService{client: client}
}

// resourceDocument is what gets indexed for a resource: the row plus the
// owning subject, so searches can be narrowed to one subject.
type resourceDocument struct {
	models.ResourceFile
	SubjectID uint `json:"subject_id"`
}

// filterExpr builds a meilisearch filter expression, empty when no value is
// given so the request stays unfiltered.
func filterExpr(field, value string) string {
	if value == "" {
		return ""
	}
	return field + " = " + value
}

func (s *SearchService) IndexSubject(subject models.Subject) error {
	subject.Units = nil
	_, err := s.client.Index("subjects").AddDocuments([]models.Subject{subject})
	return err
}

func (s *SearchService) DeleteSubject(subjectID uint) error {
	_, err := s.client.Index("subjects").DeleteDocument(strconv.FormatUint(uint64(subjectID), 10))
	return err
}

func (s *SearchService) IndexResource(resource models.ResourceFile, subjectID uint) error {
	doc := resourceDocument{ResourceFile: resource, SubjectID: subjectID}
	_, err := s.client.Index("resources").AddDocuments([]resourceDocument{doc})
	return err
}

func (s *SearchService) DeleteResource(resourceID uint) error {
	_, err := s.client.Index("resources").DeleteDocument(strconv.FormatUint(uint64(resourceID), 10))
	return err
}

func (s *SearchService) SearchResources(query string, subjectID string) (*meilisearch.SearchResponse, error) {
	request := &meilisearch.SearchRequest{
		Limit: 20,
	}

	if filter := filterExpr("subject_id", subjectID); filter != "" {
		request.Filter = filter
	}

	return s.client.Index("resources").Search(query, request)
}

func (s *SearchService) SearchSubjects(query string, semesterID string) (*meilisearch.SearchResponse, error) {
	request := &meilisearch.SearchRequest{
		Limit: 50,
	}

	if filter := filterExpr("semester_id", semesterID); filter != "" {
		request.Filter = filter
	}

	return s.client.Index("subjects").Search(query, request)
}
