package export

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/aniweek-io/web-ui/models"
	"github.com/aniweek-io/web-ui/services/airing"
	"github.com/aniweek-io/web-ui/services/anime"
)

// Document is the bulk transfer format. Exports carry enriched records for
// readability; imports only trust the raw stored facts inside them.
type Document struct {
	ID          string             `json:"id"`
	Source      string             `json:"source,omitempty"`
	GeneratedAt time.Time          `json:"generatedAt"`
	AnimeList   []*airing.Enriched `json:"animeList"`
}

type ImportSummary struct {
	Added   int      `json:"added"`
	Skipped []string `json:"skipped,omitempty"`
}

type Service struct {
	anime  *anime.Service
	domain string
}

func New(animeService *anime.Service, domain string) *Service {
	return &Service{anime: animeService, domain: domain}
}

// Export collects every record enriched at the current instant into one
// document.
func (s *Service) Export(ctx context.Context) (*Document, error) {
	list, err := s.anime.List(ctx, false)
	if err != nil {
		return nil, err
	}
	return &Document{
		ID:          uuid.NewV4().String(),
		Source:      s.domain,
		GeneratedAt: time.Now(),
		AnimeList:   list,
	}, nil
}

// Import parses a document and re-inserts the raw facts as one batch
// transaction. Derived fields are ignored, they are recomputed on read,
// and event ids are dropped because the events they pointed at belong to
// another device.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse import document")
	}
	records := make([]*models.Anime, 0, len(doc.AnimeList))
	for _, en := range doc.AnimeList {
		if en == nil || en.Anime == nil {
			continue
		}
		records = append(records, &models.Anime{
			Name:                  en.Name,
			TotalEpisode:          en.TotalEpisode,
			Cover:                 en.Cover,
			FirstEpisodeTimestamp: en.FirstEpisodeTimestamp,
		})
	}
	added, skipped, err := s.anime.ImportRecords(ctx, records)
	if err != nil {
		return nil, err
	}
	return &ImportSummary{Added: added, Skipped: skipped}, nil
}
