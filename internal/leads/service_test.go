package leads

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

type memRepo struct {
	leads map[string]Lead
}

func newMemRepo() *memRepo {
	return &memRepo{leads: make(map[string]Lead)}
}

func (r *memRepo) Create(ctx context.Context, lead Lead) error {
	r.leads[lead.ID] = lead
	return nil
}

func (r *memRepo) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Lead, error) {
	var out []Lead
	for _, lead := range r.leads {
		if filter.Status != "" && lead.Status != filter.Status {
			continue
		}
		if filter.ListingID != "" && lead.ListingID != filter.ListingID {
			continue
		}
		out = append(out, lead)
	}
	return out, nil
}

func (r *memRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	items, _ := r.List(ctx, filter, 0, 0)
	return int64(len(items)), nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (Lead, error) {
	lead, ok := r.leads[id]
	if !ok {
		return Lead{}, mongo.ErrNoDocuments
	}
	return lead, nil
}

func (r *memRepo) UpdateStatus(ctx context.Context, id string, status string, now time.Time) (Lead, error) {
	lead, ok := r.leads[id]
	if !ok {
		return Lead{}, mongo.ErrNoDocuments
	}
	lead.Status = status
	lead.UpdatedAt = now
	r.leads[id] = lead
	return lead, nil
}

type fakeListings struct {
	names map[string]string
}

func (f *fakeListings) ListingName(ctx context.Context, id string) (string, error) {
	name, ok := f.names[id]
	if !ok {
		return "", errors.New("not found")
	}
	return name, nil
}

func newTestService(repo Repository) *Service {
	resolver := &fakeListings{names: map[string]string{"l1": "Lakeview Residency"}}
	return NewService(repo, resolver, time.UTC, nil)
}

func TestCreateResolvesListingName(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	lead, err := svc.Create(context.Background(), "l1", CreateRequest{
		Name:  "Asha",
		Phone: "9876543210",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lead.ListingName != "Lakeview Residency" {
		t.Fatalf("listing name = %q", lead.ListingName)
	}
	if lead.Status != StatusNew {
		t.Fatalf("new leads start as %q, got %q", StatusNew, lead.Status)
	}
}

func TestCreateRejectsUnknownListing(t *testing.T) {
	svc := newTestService(newMemRepo())

	if _, err := svc.Create(context.Background(), "missing", CreateRequest{Name: "A", Phone: "9876543210"}); !errors.Is(err, ErrUnknownListing) {
		t.Fatalf("expected ErrUnknownListing, got %v", err)
	}
}

func TestUpdateStatusValidatesValue(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	lead, err := svc.Create(context.Background(), "l1", CreateRequest{Name: "A", Phone: "9876543210"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), lead.ID, "shipped"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), lead.ID, "Contacted")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != StatusContacted {
		t.Fatalf("status = %q", updated.Status)
	}
}

func TestExportXLSXWritesRows(t *testing.T) {
	items := []Lead{
		{
			ID:          "lead-1",
			ListingName: "Lakeview Residency",
			Name:        "Asha",
			Phone:       "9876543210",
			Status:      StatusNew,
			CreatedAt:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	data, err := ExportXLSX(items)
	if err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue("Leads", "A1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if header != "ID" {
		t.Fatalf("header A1 = %q", header)
	}
	name, err := f.GetCellValue("Leads", "C2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if name != "Asha" {
		t.Fatalf("cell C2 = %q", name)
	}
}
