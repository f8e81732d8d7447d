package notices

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("notice not found")

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

func (s *Service) Record(ctx context.Context, ownerID, kind, title, body string) (Notice, error) {
	notice := Notice{
		ID:        uuid.NewString(),
		OwnerID:   strings.TrimSpace(ownerID),
		Kind:      kind,
		Title:     strings.TrimSpace(title),
		Body:      strings.TrimSpace(body),
		Read:      false,
		CreatedAt: time.Now().In(s.location),
	}
	if err := s.repo.Create(ctx, notice); err != nil {
		return Notice{}, err
	}
	return notice, nil
}

func (s *Service) List(ctx context.Context, ownerID string, limit, offset int64) ([]Notice, int64, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

func (s *Service) MarkRead(ctx context.Context, ownerID, id string) (Notice, error) {
	updated, err := s.repo.MarkRead(ctx, ownerID, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Notice{}, ErrNotFound
		}
		return Notice{}, err
	}
	return updated, nil
}

func (s *Service) MarkAllRead(ctx context.Context, ownerID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, ownerID)
}
