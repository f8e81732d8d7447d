package drafts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"estatedesk-backend/internal/composer"
	"estatedesk-backend/internal/imaging"
	"estatedesk-backend/internal/uploads"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("draft not found")

type Service struct {
	repo     Repository
	store    *uploads.Store
	deps     Dependencies
	location *time.Location
	log      *slog.Logger

	compress func(io.Reader) ([]byte, error)
}

func NewService(repo Repository, store *uploads.Store, deps Dependencies, location *time.Location, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		deps:     deps,
		location: location,
		log:      log,
		compress: imaging.Compress,
	}
}

func (s *Service) Create(ctx context.Context, ownerID string) (Draft, error) {
	now := time.Now().In(s.location)
	draft := Draft{
		ID:        uuid.NewString(),
		OwnerID:   strings.TrimSpace(ownerID),
		Form:      composer.NewProjectFormState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, draft); err != nil {
		return Draft{}, err
	}
	return draft, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (Draft, error) {
	draft, err := s.repo.GetByID(ctx, ownerID, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, err
	}
	return draft, nil
}

func (s *Service) List(ctx context.Context, ownerID string, limit, offset int64) ([]Draft, error) {
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

// Discard deletes the draft and releases every staged file it still owns.
func (s *Service) Discard(ctx context.Context, ownerID, id string) error {
	draft, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, draft.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	staged := draft.Form.Reset()
	if err := s.store.RemoveAll(staged); err != nil {
		s.log.Warn("draft discard: staged file release failed", slog.String("error", err.Error()))
	}
	return nil
}

// mutate is the shared load-edit-save cycle of every composer interaction.
func (s *Service) mutate(ctx context.Context, ownerID, id string, fn func(*Draft) error) (Draft, error) {
	draft, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return Draft{}, err
	}
	if err := fn(&draft); err != nil {
		return Draft{}, err
	}
	draft.UpdatedAt = time.Now().In(s.location)
	if err := s.repo.Save(ctx, draft); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, err
	}
	return draft, nil
}

func (s *Service) UpdateScalars(ctx context.Context, ownerID, id string, req ScalarsRequest) (Draft, error) {
	return s.mutate(ctx, ownerID, id, func(d *Draft) error {
		d.Form.Scalars = req.toScalars()
		return nil
	})
}

// NamedUpload is one selected photo: the client filename for warnings plus
// its bytes.
type NamedUpload struct {
	Name string
	Data []byte
}

// AddImages compresses and stages the batch, then appends it to the group.
// Files that fail compression are skipped with a warning; the whole batch is
// rejected when it would push the group past its cap, and nothing is staged.
func (s *Service) AddImages(ctx context.Context, ownerID, id string, kind composer.GroupKind, files []NamedUpload) (AddImagesResult, error) {
	var skipped []string
	draft, err := s.mutate(ctx, ownerID, id, func(d *Draft) error {
		group := d.Form.Group(kind)
		if group == nil {
			return composer.ErrIndexOutOfRange
		}

		compressed := make([]NamedUpload, 0, len(files))
		for _, f := range files {
			data, err := s.compress(bytes.NewReader(f.Data))
			if err != nil {
				s.log.Warn("draft images: compression failed, skipping file",
					slog.String("file", f.Name),
					slog.String("error", err.Error()),
				)
				skipped = append(skipped, f.Name)
				continue
			}
			compressed = append(compressed, NamedUpload{Name: f.Name, Data: data})
		}

		if group.Len()+len(compressed) > composer.MaxGroupSize {
			return composer.ErrGroupFull
		}

		entries := make([]composer.ImageEntry, 0, len(compressed))
		stagedIDs := make([]string, 0, len(compressed))
		for _, f := range compressed {
			stagedID, previewURL, err := s.store.Stage(f.Data)
			if err != nil {
				// Roll back this batch's files before failing the call.
				if rmErr := s.store.RemoveAll(stagedIDs); rmErr != nil {
					s.log.Warn("draft images: rollback failed", slog.String("error", rmErr.Error()))
				}
				return err
			}
			stagedIDs = append(stagedIDs, stagedID)
			entries = append(entries, composer.NewLocalEntry(stagedID, previewURL))
		}

		if err := group.AddEntries(entries...); err != nil {
			if rmErr := s.store.RemoveAll(stagedIDs); rmErr != nil {
				s.log.Warn("draft images: rollback failed", slog.String("error", rmErr.Error()))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return AddImagesResult{}, err
	}
	return AddImagesResult{Draft: draft, Skipped: skipped}, nil
}

// RemoveImage drops the entry and tears down its staged file when it was a
// local one.
func (s *Service) RemoveImage(ctx context.Context, ownerID, id string, kind composer.GroupKind, index int) (Draft, error) {
	return s.mutate(ctx, ownerID, id, func(d *Draft) error {
		group := d.Form.Group(kind)
		if group == nil {
			return composer.ErrIndexOutOfRange
		}
		removed, err := group.RemoveAt(index)
		if err != nil {
			return err
		}
		if removed.IsLocal() {
			if err := s.store.Remove(removed.StagedID); err != nil {
				s.log.Warn("draft images: staged file release failed",
					slog.String("staged_id", removed.StagedID),
					slog.String("error", err.Error()),
				)
			}
		}
		return nil
	})
}

func (s *Service) SetMainImage(ctx context.Context, ownerID, id string, kind composer.GroupKind, index int) (Draft, error) {
	return s.mutate(ctx, ownerID, id, func(d *Draft) error {
		group := d.Form.Group(kind)
		if group == nil {
			return composer.ErrIndexOutOfRange
		}
		group.SetMain(index)
		return nil
	})
}

func (s *Service) AddPlanRow(ctx context.Context, ownerID, id string) (Draft, error) {
	return s.mutate(ctx, ownerID, id, func(d *Draft) error {
		d.Form.Plans.AddRow()
		return nil
	})
}

func (s *Service) UpdatePlanField(ctx context.Context, ownerID, id string, index int, field, value string) (Draft, error) {
	return s.mutate(ctx, ownerID, id, func(d *Draft) error {
		return d.Form.Plans.UpdateField(index, field, value)
	})
}

func (s *Service) RemovePlanRow(ctx context.Context, ownerID, id string, index int) (Draft, error) {
	return s.mutate(ctx, ownerID, id, func(d *Draft) error {
		return d.Form.Plans.RemoveRow(index)
	})
}

func (s *Service) AddFeature(ctx context.Context, ownerID, id, text string) (Draft, error) {
	return s.mutate(ctx, ownerID, id, func(d *Draft) error {
		d.Form.Features.AddFeature(text)
		return nil
	})
}

func (s *Service) RemoveFeature(ctx context.Context, ownerID, id string, index int) (Draft, error) {
	return s.mutate(ctx, ownerID, id, func(d *Draft) error {
		return d.Form.Features.RemoveFeature(index)
	})
}

func (s *Service) ToggleAmenity(ctx context.Context, ownerID, id, amenityID string) (Draft, error) {
	return s.mutate(ctx, ownerID, id, func(d *Draft) error {
		d.Form.Amenities.ToggleCheckbox(amenityID)
		return nil
	})
}

func (s *Service) SelectFurnishing(ctx context.Context, ownerID, id, amenityID string) (Draft, error) {
	return s.mutate(ctx, ownerID, id, func(d *Draft) error {
		d.Form.Amenities.SelectRadio(amenityID)
		return nil
	})
}

func (s *Service) ClearFurnishing(ctx context.Context, ownerID, id string) (Draft, error) {
	return s.mutate(ctx, ownerID, id, func(d *Draft) error {
		d.Form.Amenities.ClearRadio()
		return nil
	})
}
