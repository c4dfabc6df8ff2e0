package jobs

import (
	"context"
	"log"

	search "anoa.com/vxrank/internal/modules/search/service"
)

// CatalogReindexJob keeps the trick search index in line with the embedded
// catalog.
type CatalogReindexJob struct {
	search   search.TrickSearchService
	schedule string
}

func NewCatalogReindexJob(svc search.TrickSearchService, schedule string) *CatalogReindexJob {
	return &CatalogReindexJob{search: svc, schedule: schedule}
}

func (j *CatalogReindexJob) Name() string     { return "catalog-reindex" }
func (j *CatalogReindexJob) Schedule() string { return j.schedule }

func (j *CatalogReindexJob) Execute(ctx context.Context) error {
	n, err := j.search.ReindexCatalog(ctx)
	if err != nil {
		return err
	}
	log.Printf("📚 catalog reindexed: %d tricks", n)
	return nil
}
