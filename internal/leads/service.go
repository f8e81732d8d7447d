package leads

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidStatus  = errors.New("invalid status")
	ErrNotFound       = errors.New("lead not found")
	ErrUnknownListing = errors.New("unknown listing")
)

type Notifier interface {
	SendLeadNotification(ctx context.Context, lead Lead) (string, error)
}

// ListingResolver names the listing a lead points at. The listings package
// provides the implementation.
type ListingResolver interface {
	ListingName(ctx context.Context, id string) (string, error)
}

type Service struct {
	repo     Repository
	listings ListingResolver
	location *time.Location
	notifier Notifier
}

func NewService(repo Repository, listings ListingResolver, location *time.Location, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		listings: listings,
		location: location,
		notifier: notifier,
	}
}

func (s *Service) Create(ctx context.Context, listingID string, req CreateRequest) (Lead, error) {
	listingID = strings.TrimSpace(listingID)
	listingName, err := s.listings.ListingName(ctx, listingID)
	if err != nil {
		return Lead{}, ErrUnknownListing
	}

	now := time.Now().In(s.location)
	lead := Lead{
		ID:          uuid.NewString(),
		ListingID:   listingID,
		ListingName: listingName,
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		Message:     strings.TrimSpace(req.Message),
		Status:      StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return Lead{}, err
	}

	return lead, nil
}

func (s *Service) ListAdmin(ctx context.Context, filter ListFilter, limit, offset int64) ([]Lead, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	filter.ListingID = strings.TrimSpace(filter.ListingID)

	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}

	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) GetAdminByID(ctx context.Context, id string) (Lead, error) {
	lead, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Lead, error) {
	id = strings.TrimSpace(id)
	status = strings.ToLower(strings.TrimSpace(status))
	if !IsValidStatus(status) {
		return Lead{}, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status, time.Now().In(s.location))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return updated, nil
}

func (s *Service) NotifyNewLead(ctx context.Context, lead Lead) error {
	if s.notifier == nil {
		return nil
	}
	_, err := s.notifier.SendLeadNotification(ctx, lead)
	return err
}
