package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"studentForum/internal/modules/users/domain"
	"studentForum/internal/platform/store"
	"studentForum/internal/shared/auth"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// ProfileUpdate carries the editable profile fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	Name       *string
	Bio        *string
	University *string
	Major      *string
	Avatar     *string
	Skills     []string
	Interests  []string
}

type emailClaim struct {
	UserID string `json:"userId"`
}

type AuthResult struct {
	Token string         `json:"token"`
	User  domain.Profile `json:"user"`
}

type UserService struct {
	store  store.DocumentStore
	issuer auth.TokenIssuer
	now    func() time.Time
}

func NewUserService(s store.DocumentStore, issuer auth.TokenIssuer) *UserService {
	return &UserService{store: s, issuer: issuer, now: time.Now}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.byEmail(ctx, email); err == nil {
		return AuthResult{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return AuthResult{}, err
	}

	// The email claim is keyed by address, so only one concurrent registration can insert it.
	userID := uuid.NewString()
	if err := s.store.Insert(ctx, store.UserEmails, email, emailClaim{UserID: userID}); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return AuthResult{}, domain.ErrEmailTaken
		}
		return AuthResult{}, fmt.Errorf("claim email: %w", err)
	}
	release := func() {
		if err := s.store.Delete(context.WithoutCancel(ctx), store.UserEmails, email); err != nil {
			slog.Warn("release email claim failed", slog.String("userId", userID), slog.Any("error", err))
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		release()
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	user := domain.User{
		ID:           userID,
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{auth.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, store.Users, user.ID, user); err != nil {
		release()
		return AuthResult{}, fmt.Errorf("insert user: %w", err)
	}
	return s.session(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.byEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return AuthResult{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}
	ok, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, domain.ErrInvalidCredentials
	}
	return s.session(user)
}

func (s *UserService) Profile(ctx context.Context, id string) (domain.Profile, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	return user.Profile(), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (domain.Profile, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&user.Name, in.Name)
	assign(&user.Bio, in.Bio)
	assign(&user.University, in.University)
	assign(&user.Major, in.Major)
	assign(&user.Avatar, in.Avatar)
	if in.Skills != nil {
		user.Skills = cleanTags(in.Skills)
	}
	if in.Interests != nil {
		user.Interests = cleanTags(in.Interests)
	}
	user.UpdatedAt = s.now().UTC()
	if err := s.store.Replace(ctx, store.Users, user.ID, user); err != nil {
		return domain.Profile{}, err
	}
	return user.Profile(), nil
}

func (s *UserService) session(user domain.User) (AuthResult, error) {
	token, err := s.issuer.Issue(user.ID, user.Name, user.Roles)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{Token: token, User: user.Profile()}, nil
}

func (s *UserService) get(ctx context.Context, id string) (domain.User, error) {
	user, err := store.GetAs[domain.User](ctx, s.store, store.Users, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) byEmail(ctx context.Context, email string) (domain.User, error) {
	users, err := store.FindAs[domain.User](ctx, s.store, store.Users, store.Filter{"email": email})
	if err != nil {
		return domain.User{}, err
	}
	if len(users) == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	return users[0], nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cleanTags(values []string) []string {
	trimmed := lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) })
	return lo.Uniq(lo.Compact(trimmed))
}
