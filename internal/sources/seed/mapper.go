package seed

import (
	"time"

	"github.com/MrSnakeDoc/chronos/internal/domain"
)

// Mapper converts seed entries to domain resources
type Mapper struct {
	now   func() time.Time
	newID domain.IDFunc
}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{now: time.Now, newID: domain.NewResourceID}
}

// MapResources normalizes every entry through domain.NewResource. Each
// resource gets a fresh id, and creation times increase by one microsecond
// per entry so file order survives a round trip through the Redis order set.
// Entries with a blank url are skipped, and so are repeated urls.
func (m *Mapper) MapResources(f File) []domain.Resource {
	resources := make([]domain.Resource, 0, len(f.Resources))
	seen := make(map[string]bool, len(f.Resources))
	now := m.now()

	for _, entry := range f.Resources {
		url := domain.NormalizeURL(entry.URL)
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true

		createdAt := now.Add(time.Duration(len(resources)) * time.Microsecond)
		r, err := domain.NewResource(url, entry.Title, m.newID, createdAt)
		if err != nil {
			continue
		}
		resources = append(resources, r)
	}

	return resources
}
