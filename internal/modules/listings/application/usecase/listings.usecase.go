package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"studentForum/internal/modules/listings/domain"
	"studentForum/internal/platform/store"
)

// seedNamespace scopes the deterministic ids given to imported listings.
var seedNamespace = uuid.MustParse("6f1c2a8e-3b7d-4c55-9a0e-2d4f8b91c7a3")

type ListingService struct {
	store store.DocumentStore
	now   func() time.Time
}

func NewListingService(s store.DocumentStore) *ListingService {
	return &ListingService{store: s, now: time.Now}
}

func collection(kind domain.Kind) (string, error) {
	switch kind {
	case domain.KindOpportunity:
		return store.Opportunities, nil
	case domain.KindScholarship:
		return store.Scholarships, nil
	}
	return "", domain.ErrUnknownKind
}

// List returns listings of kind, newest first.
func (s *ListingService) List(ctx context.Context, kind domain.Kind, category, search string) ([]domain.Listing, error) {
	coll, err := collection(kind)
	if err != nil {
		return nil, err
	}
	all, err := store.FindAs[domain.Listing](ctx, s.store, coll, nil)
	if err != nil {
		return nil, err
	}
	out := lo.Filter(all, func(l domain.Listing, _ int) bool { return l.Matches(category, search) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *ListingService) Get(ctx context.Context, kind domain.Kind, id string) (domain.Listing, error) {
	coll, err := collection(kind)
	if err != nil {
		return domain.Listing{}, err
	}
	l, err := store.GetAs[domain.Listing](ctx, s.store, coll, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return l, err
}

// Create stores a new listing of kind posted by userID.
func (s *ListingService) Create(ctx context.Context, kind domain.Kind, userID string, in domain.Listing) (domain.Listing, error) {
	coll, err := collection(kind)
	if err != nil {
		return domain.Listing{}, err
	}
	l := normalize(in)
	l.ID = uuid.NewString()
	l.Kind = kind
	l.PostedBy = userID
	l.CreatedAt = s.now().UTC()
	if err := s.store.Insert(ctx, coll, l.ID, l); err != nil {
		return domain.Listing{}, fmt.Errorf("insert %s: %w", kind, err)
	}
	return l, nil
}

// Delete removes a listing. Admins may remove any listing.
func (s *ListingService) Delete(ctx context.Context, kind domain.Kind, userID string, admin bool, id string) error {
	l, err := s.Get(ctx, kind, id)
	if err != nil {
		return err
	}
	if !admin && l.PostedBy != userID {
		return domain.ErrNotPoster
	}
	coll, _ := collection(kind)
	return s.store.Delete(ctx, coll, l.ID)
}

// Import inserts seed listings. Ids derive from kind, title and organization, so
// re-importing the same file skips entries already present.
func (s *ListingService) Import(ctx context.Context, items []domain.Listing) (int, error) {
	inserted := 0
	now := s.now().UTC()
	for i, item := range items {
		kind, err := domain.ParseKind(string(item.Kind))
		if err != nil {
			return inserted, fmt.Errorf("seed entry %d (%q): %w", i, item.Title, err)
		}
		coll, _ := collection(kind)
		l := normalize(item)
		if l.Title == "" {
			return inserted, fmt.Errorf("seed entry %d: title is required", i)
		}
		l.Kind = kind
		l.ID = uuid.NewSHA1(seedNamespace, []byte(string(kind)+"\x00"+strings.ToLower(l.Title)+"\x00"+strings.ToLower(l.Organization))).String()
		l.PostedBy = "seed"
		l.CreatedAt = now
		err = s.store.Insert(ctx, coll, l.ID, l)
		switch {
		case errors.Is(err, store.ErrDuplicate):
			slog.Debug("seed listing exists", slog.String("kind", string(kind)), slog.String("id", l.ID))
		case err != nil:
			return inserted, fmt.Errorf("insert seed %s %q: %w", kind, l.Title, err)
		default:
			inserted++
		}
	}
	return inserted, nil
}

func normalize(in domain.Listing) domain.Listing {
	trim := strings.TrimSpace
	out := in
	out.Title = trim(in.Title)
	out.Description = trim(in.Description)
	out.Category = trim(in.Category)
	out.Organization = trim(in.Organization)
	out.Location = trim(in.Location)
	out.Link = trim(in.Link)
	out.Deadline = trim(in.Deadline)
	out.Amount = trim(in.Amount)
	out.Requirements = cleanList(in.Requirements)
	out.Tags = lo.Uniq(lo.Map(cleanList(in.Tags), func(t string, _ int) string { return strings.ToLower(t) }))
	return out
}

func cleanList(values []string) []string {
	out := lo.Compact(lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) }))
	if out == nil {
		return []string{}
	}
	return out
}
