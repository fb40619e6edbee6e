package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"studentForum/internal/modules/posts/domain"
	"studentForum/internal/platform/store"
)

type Author struct {
	ID   string
	Name string
}

// PostInput carries editable fields. On update, empty strings and a nil Images keep the stored value.
type PostInput struct {
	Title   string
	Content string
	Images  []string
}

// PostService manages community posts. Posts have no realtime topic, so writes are not relayed.
type PostService struct {
	store store.DocumentStore
	now   func() time.Time
}

func NewPostService(s store.DocumentStore) *PostService {
	return &PostService{store: s, now: time.Now}
}

// List returns posts newest first. A non-empty authorID restricts to that author.
func (s *PostService) List(ctx context.Context, authorID string) ([]domain.Post, error) {
	var filter store.Filter
	if authorID = strings.TrimSpace(authorID); authorID != "" {
		filter = store.Filter{"authorId": authorID}
	}
	posts, err := store.FindAs[domain.Post](ctx, s.store, store.Posts, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

// Get loads a post and counts the view.
func (s *PostService) Get(ctx context.Context, id string) (domain.Post, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	p.Views++
	if err := s.store.Replace(ctx, store.Posts, p.ID, p); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

func (s *PostService) Create(ctx context.Context, author Author, in PostInput) (domain.Post, error) {
	now := s.now().UTC()
	p := domain.Post{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(in.Title),
		Content:    strings.TrimSpace(in.Content),
		Images:     cleanImages(in.Images),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Likes:      []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Insert(ctx, store.Posts, p.ID, p); err != nil {
		return domain.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

func (s *PostService) Update(ctx context.Context, userID, id string, in PostInput) (domain.Post, error) {
	p, err := s.owned(ctx, userID, id)
	if err != nil {
		return domain.Post{}, err
	}
	if v := strings.TrimSpace(in.Title); v != "" {
		p.Title = v
	}
	if v := strings.TrimSpace(in.Content); v != "" {
		p.Content = v
	}
	if in.Images != nil {
		p.Images = cleanImages(in.Images)
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.store.Replace(ctx, store.Posts, p.ID, p); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	p, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, store.Posts, p.ID)
}

// ToggleLike adds or removes userID from the post's likes.
func (s *PostService) ToggleLike(ctx context.Context, userID, id string) (domain.Post, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	if p.LikedBy(userID) {
		p.Likes = lo.Without(p.Likes, userID)
	} else {
		p.Likes = append(p.Likes, userID)
	}
	if err := s.store.Replace(ctx, store.Posts, p.ID, p); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

func (s *PostService) load(ctx context.Context, id string) (domain.Post, error) {
	p, err := store.GetAs[domain.Post](ctx, s.store, store.Posts, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Post{}, domain.ErrPostNotFound
	}
	return p, err
}

func (s *PostService) owned(ctx context.Context, userID, id string) (domain.Post, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	if p.AuthorID != userID {
		return domain.Post{}, domain.ErrNotAuthor
	}
	return p, nil
}

func cleanImages(images []string) []string {
	out := lo.Uniq(lo.Compact(lo.Map(images, func(v string, _ int) string { return strings.TrimSpace(v) })))
	if out == nil {
		return []string{}
	}
	return out
}
