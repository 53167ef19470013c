// Package scholarsource adapts the scholarly provider client to the
// pipeline's author source port, folding client errors into outcomes.
package scholarsource

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"scholardash/internal/app/ports"
	"scholardash/pkg/scholarly"
)

// Source wraps a scholarly client.
type Source struct {
	client *scholarly.Client
	now    func() time.Time
}

// New builds an author source over the given client.
func New(client *scholarly.Client) *Source {
	return &Source{client: client, now: time.Now}
}

// FetchByScholarID looks up an author profile by provider identifier.
func (s *Source) FetchByScholarID(ctx context.Context, scholarID string) ports.FetchOutcome {
	author, err := s.client.AuthorByID(ctx, scholarID)
	if err != nil {
		return outcomeFromError(err)
	}
	return ports.FetchOutcome{
		Status:   ports.FetchSuccess,
		Snapshot: snapshotFromAuthor(author, s.now()),
	}
}

// SearchByName resolves an author by display name, taking the first match.
func (s *Source) SearchByName(ctx context.Context, name string) ports.FetchOutcome {
	author, err := s.client.SearchAuthor(ctx, name)
	if err != nil {
		return outcomeFromError(err)
	}
	return ports.FetchOutcome{
		Status:   ports.FetchSuccess,
		Snapshot: snapshotFromAuthor(author, s.now()),
	}
}

func outcomeFromError(err error) ports.FetchOutcome {
	if errors.Is(err, scholarly.ErrNotFound) {
		return ports.FetchOutcome{Status: ports.FetchNotFound}
	}
	var httpErr *scholarly.HTTPError
	if errors.As(err, &httpErr) && httpErr.IsRateLimited() {
		return ports.FetchOutcome{
			Status:     ports.FetchRateLimited,
			RetryAfter: httpErr.RetryAfter,
			Reason:     httpErr.Error(),
		}
	}
	return ports.FetchOutcome{Status: ports.FetchSourceError, Reason: err.Error()}
}

func snapshotFromAuthor(author scholarly.Author, fetchedAt time.Time) ports.MetricsSnapshot {
	snapshot := ports.MetricsSnapshot{
		ScholarID:          author.ScholarID,
		Name:               author.Name,
		Affiliation:        author.Affiliation,
		EmailDomain:        author.EmailDomain,
		Interests:          author.Interests,
		Citations:          author.CitedBy,
		Citations5y:        author.CitedBy5y,
		HIndex:             author.HIndex,
		HIndex5y:           author.HIndex5y,
		I10Index:           author.I10Index,
		I10Index5y:         author.I10Index5y,
		PublicationCount:   len(author.Publications),
		PublicationsByYear: make(map[int]int),
		CitationsByYear:    make(map[int]int),
		FetchedAt:          fetchedAt,
	}
	for _, pub := range author.Publications {
		year := int(pub.Year)
		snapshot.Publications = append(snapshot.Publications, ports.Publication{
			Title:     pub.Title,
			Year:      year,
			Citations: pub.Citations,
			Authors:   pub.Authors,
			Venue:     pub.Venue,
			URL:       pub.URL,
		})
		if year > 0 {
			snapshot.PublicationsByYear[year]++
			snapshot.CitationsByYear[year] += pub.Citations
		}
	}
	return snapshot
}

var _ ports.AuthorSource = (*Source)(nil)
