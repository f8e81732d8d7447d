package drafts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"estatedesk-backend/internal/builderapi"
	"estatedesk-backend/internal/catalog"
	"estatedesk-backend/internal/composer"
	"estatedesk-backend/internal/listings"
	"estatedesk-backend/internal/notices"
	"estatedesk-backend/internal/submit"
	"estatedesk-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ProjectAPI is the slice of the remote client the hydration flow needs.
type ProjectAPI interface {
	GetProjectDetails(ctx context.Context, projectID string) (builderapi.ProjectDetails, error)
}

// ReferenceData reverse-maps the human-readable names a fetched record
// carries back to selectable ids.
type ReferenceData interface {
	StateIDByName(ctx context.Context, name string) (string, error)
	CityIDByName(ctx context.Context, stateID, name string) (string, error)
}

// ListingMirror records a published project in the public catalog.
type ListingMirror interface {
	Mirror(ctx context.Context, listing listings.Listing) error
}

// NoticeRecorder appends to the owner's notification feed.
type NoticeRecorder interface {
	Record(ctx context.Context, ownerID, kind, title, body string) (notices.Notice, error)
}

type Notifier interface {
	SendSubmissionConfirmation(ctx context.Context, toEmail, toName, projectName string) (string, error)
}

// Dependencies are the collaborators of the hydrate and submit flows. Any of
// Listings, Notices and Notifier may be nil; the corresponding side effect is
// skipped.
type Dependencies struct {
	API        ProjectAPI
	Controller *submit.Controller
	RefData    ReferenceData
	Listings   ListingMirror
	Notices    NoticeRecorder
	Notifier   Notifier
}

// Hydrate replaces the draft's form with a fetched project record, releasing
// any staged files the draft held. State and city names that cannot be
// reverse-mapped leave the corresponding selection empty.
func (s *Service) Hydrate(ctx context.Context, ownerID, id, projectID string) (Draft, error) {
	details, err := s.deps.API.GetProjectDetails(ctx, strings.TrimSpace(projectID))
	if err != nil {
		return Draft{}, err
	}

	rec := s.buildRecord(ctx, details)

	return s.mutate(ctx, ownerID, id, func(d *Draft) error {
		staged := d.Form.Reset()
		if err := s.store.RemoveAll(staged); err != nil {
			s.log.Warn("draft hydrate: staged file release failed", slog.String("error", err.Error()))
		}
		d.Form.ApplyRecord(rec, catalog.IsFurnishing)
		d.RemoteProjectID = strings.TrimSpace(projectID)
		return nil
	})
}

func (s *Service) buildRecord(ctx context.Context, details builderapi.ProjectDetails) composer.HydrationRecord {
	stateID, err := s.deps.RefData.StateIDByName(ctx, details.State)
	if err != nil {
		s.log.Warn("draft hydrate: state name not mapped", slog.String("state", details.State))
	}
	var cityID string
	if stateID != "" {
		cityID, err = s.deps.RefData.CityIDByName(ctx, stateID, details.City)
		if err != nil {
			s.log.Warn("draft hydrate: city name not mapped", slog.String("city", details.City))
		}
	}

	return composer.HydrationRecord{
		Scalars: composer.ScalarFields{
			Name:                   details.Name,
			ProjectType:            details.ProjectType,
			Description:            details.Description,
			Price:                  details.Price,
			Area:                   details.Area,
			Beds:                   details.Beds,
			Status:                 details.Status,
			Possession:             details.Possession,
			Address:                details.Address,
			Locality:               details.Locality,
			CityID:                 cityID,
			StateID:                stateID,
			IsNA:                   details.IsNA,
			IsReraApproved:         details.IsReraApproved,
			IsOCApproved:           details.IsOCApproved,
			ReraNumber:             details.ReraNumber,
			ReraDate:               details.ReraDate,
			ProjectAreaAcres:       details.ProjectAreaAcres,
			LaunchDate:             details.LaunchDate,
			ExpectedCompletionDate: details.ExpectedCompletionDate,
			OCDate:                 details.OCDate,
		},
		AmenityIDs: lo.Map(details.AmenityDetails, func(a builderapi.AmenityDetail, _ int) string {
			return a.AmenityID
		}),
		ProjectImages: toRemoteImages(details.ProjectImages),
		AmenityImages: toRemoteImages(details.AmenityImages),
		FloorImages:   toRemoteImages(details.FloorImages),
		PlanRows: lo.Map(details.PlanDetails, func(p builderapi.PlanDetail, _ int) composer.PlanDetailRow {
			return composer.PlanDetailRow{Type: p.Type, Area: p.Area, Price: p.Price}
		}),
		Features: details.ExclusiveFeatures,
	}
}

func toRemoteImages(images []builderapi.ImageDetail) []composer.RemoteImage {
	return lo.Map(images, func(img builderapi.ImageDetail, _ int) composer.RemoteImage {
		return composer.RemoteImage{URL: img.ImageURL, IsMain: img.IsMain}
	})
}

// Submit runs one submission attempt against the remote API. A submitted
// outcome finalizes the draft: the form resets, staged files are released,
// the project is mirrored into the public catalog and a notice is recorded.
// Every other outcome leaves the draft untouched.
func (s *Service) Submit(ctx context.Context, ownerID, id string, req SubmitRequest) (submit.Outcome, Draft, error) {
	draft, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return submit.Outcome{}, Draft{}, err
	}

	projectID := strings.TrimSpace(req.ProjectID)
	if projectID == "" {
		projectID = draft.RemoteProjectID
	}

	controllerReq := submit.Request{
		Mode:          submit.Mode(req.Mode),
		ProjectID:     projectID,
		BuilderID:     strings.TrimSpace(req.BuilderID),
		ContactName:   strings.TrimSpace(req.ContactName),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.TrimSpace(req.Email),
		TermsAccepted: req.TermsAccepted,
		OTP:           strings.TrimSpace(req.OTP),
	}

	payload := &builderapi.Payload{Form: &draft.Form}
	outcome := s.deps.Controller.Submit(ctx, payload, controllerReq)
	if outcome.Status != submit.StatusSubmitted {
		return outcome, draft, nil
	}

	projectName := draft.Form.Scalars.Name
	listing := s.buildListing(draft, outcome.ProjectID)

	staged := draft.Form.Reset()
	if err := s.store.RemoveAll(staged); err != nil {
		s.log.Warn("draft submit: staged file release failed", slog.String("error", err.Error()))
	}
	draft.RemoteProjectID = listing.RemoteProjectID

	if err := s.repo.Save(ctx, draft); err != nil {
		s.log.Error("draft submit: reset save failed", slog.String("draft_id", draft.ID), slog.String("error", err.Error()))
	}

	if s.deps.Listings != nil {
		if err := s.deps.Listings.Mirror(ctx, listing); err != nil {
			s.log.Warn("draft submit: listing mirror failed", slog.String("error", err.Error()))
		}
	}

	if s.deps.Notices != nil {
		kind := notices.KindProjectSubmitted
		if controllerReq.Mode == submit.ModeUpdate {
			kind = notices.KindProjectUpdated
		}
		title := fmt.Sprintf("Project %q submitted", projectName)
		if _, err := s.deps.Notices.Record(ctx, ownerID, kind, title, outcome.Message); err != nil {
			s.log.Warn("draft submit: notice record failed", slog.String("error", err.Error()))
		}
	}

	if s.deps.Notifier != nil && controllerReq.Email != "" {
		if _, err := s.deps.Notifier.SendSubmissionConfirmation(ctx, controllerReq.Email, controllerReq.ContactName, projectName); err != nil {
			s.log.Warn("draft submit: confirmation email failed", slog.String("error", err.Error()))
		}
	}

	return outcome, draft, nil
}

func (s *Service) ResendOTP(ctx context.Context, builderID string) submit.Outcome {
	return s.deps.Controller.ResendOTP(ctx, strings.TrimSpace(builderID))
}

// buildListing snapshots the form into a public catalog entry. Only images
// the remote API already holds carry over; staged previews are released on
// reset and have no durable URL.
func (s *Service) buildListing(draft Draft, remoteProjectID string) listings.Listing {
	form := draft.Form

	listingID := strings.TrimSpace(remoteProjectID)
	if listingID == "" {
		listingID = strings.TrimSpace(draft.RemoteProjectID)
	}
	if listingID == "" {
		listingID = uuid.NewString()
	}

	var images []listings.Image
	for i, entry := range form.ProjectImages.Entries {
		if entry.RemoteURL == "" {
			continue
		}
		images = append(images, listings.Image{
			URL:    entry.RemoteURL,
			IsMain: form.ProjectImages.IsMain(i),
		})
	}

	return listings.Listing{
		ID:              listingID,
		RemoteProjectID: listingID,
		Slug:            utils.Slugify(form.Scalars.Name + "-" + listingID),
		Name:            form.Scalars.Name,
		ProjectType:     form.Scalars.ProjectType,
		Description:     form.Scalars.Description,
		Price:           form.Scalars.Price,
		Area:            form.Scalars.Area,
		Beds:            form.Scalars.Beds,
		Status:          form.Scalars.Status,
		Possession:      form.Scalars.Possession,
		Address:         form.Scalars.Address,
		Locality:        form.Scalars.Locality,
		CityID:          form.Scalars.CityID,
		StateID:         form.Scalars.StateID,
		Images:          images,
		AmenityIDs:      form.Amenities.Resolved(),
		Features:        append([]string(nil), form.Features.Items...),
		OwnerID:         draft.OwnerID,
	}
}
