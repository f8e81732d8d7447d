package builderapi

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"estatedesk-backend/internal/composer"
)

type memFiles map[string][]byte

func (m memFiles) Open(id string) ([]byte, error) {
	data, ok := m[id]
	if !ok {
		return nil, errors.New("not staged")
	}
	return data, nil
}

// parsedBody holds the decoded multipart payload: repeated value fields and
// file parts keyed by field name.
type parsedBody struct {
	values map[string][]string
	files  map[string][]byte
}

func parseMultipart(t *testing.T, contentType string, body []byte) parsedBody {
	t.Helper()
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	out := parsedBody{values: map[string][]string{}, files: map[string][]byte{}}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		data, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		if part.FileName() != "" {
			out.files[part.FormName()] = data
		} else {
			out.values[part.FormName()] = append(out.values[part.FormName()], string(data))
		}
	}
	return out
}

func sampleForm(t *testing.T) (*composer.ProjectFormState, memFiles) {
	t.Helper()
	files := memFiles{"new.jpg": []byte("jpeg-bytes")}
	form := composer.NewProjectFormState()
	form.Scalars = composer.ScalarFields{
		Name:           "Skyline Towers",
		ProjectType:    "Apartment",
		Price:          "5500000",
		Beds:           "3",
		CityID:         "12",
		StateID:        "7",
		IsReraApproved: true,
		ReraNumber:     "P52100012345",
	}
	if err := form.ProjectImages.AddEntries(
		composer.NewRemoteEntry("https://cdn.example.com/old.jpg"),
		composer.NewLocalEntry("new.jpg", "/uploads/new.jpg"),
	); err != nil {
		t.Fatalf("add entries: %v", err)
	}
	form.ProjectImages.SetMain(1)
	form.Amenities.ToggleCheckbox("2")
	form.Amenities.SelectRadio("14")
	if err := form.Plans.UpdateField(0, composer.PlanFieldType, "2BHK"); err != nil {
		t.Fatalf("plan: %v", err)
	}
	if err := form.Plans.UpdateField(0, composer.PlanFieldArea, "980"); err != nil {
		t.Fatalf("plan: %v", err)
	}
	form.Plans.AddRow() // stays blank, must be skipped
	form.Features.AddFeature("Sky lounge")
	return &form, files
}

func TestSerializeUpdateDualImageEncoding(t *testing.T) {
	form, files := sampleForm(t)
	var buf bytes.Buffer
	contentType, err := buildBody(&buf, form, files, updateEncoding, serializeOptions{projectID: "p-99"})
	if err != nil {
		t.Fatalf("build body: %v", err)
	}
	got := parseMultipart(t, contentType, buf.Bytes())

	if got.values["ProjectId"][0] != "p-99" {
		t.Fatalf("missing ProjectId, got %v", got.values["ProjectId"])
	}
	if got.values["ProjectImages[0].ImageUrl"][0] != "https://cdn.example.com/old.jpg" {
		t.Fatalf("carried-over image missing: %v", got.values)
	}
	if _, hasFile := got.files["ProjectImages[0].file"]; hasFile {
		t.Fatalf("remote entry must not emit a file part")
	}
	if !bytes.Equal(got.files["ProjectImages[1].file"], []byte("jpeg-bytes")) {
		t.Fatalf("local entry must emit the staged bytes")
	}
	if _, hasURL := got.values["ProjectImages[1].ImageUrl"]; hasURL {
		t.Fatalf("local entry must not emit an ImageUrl field")
	}
	if got.values["ProjectImages[0].IsMain"][0] != "false" || got.values["ProjectImages[1].IsMain"][0] != "true" {
		t.Fatalf("main flags wrong: %v", got.values)
	}
}

func TestSerializeUpdateUsesPlanTypeKey(t *testing.T) {
	form, files := sampleForm(t)
	var buf bytes.Buffer
	contentType, err := buildBody(&buf, form, files, updateEncoding, serializeOptions{})
	if err != nil {
		t.Fatalf("build body: %v", err)
	}
	got := parseMultipart(t, contentType, buf.Bytes())

	if got.values["PlanDetails[0].PlanType"][0] != "2BHK" {
		t.Fatalf("update must use PlanType key: %v", got.values)
	}
	if _, hasCreateKey := got.values["PlanDetails[0].Type"]; hasCreateKey {
		t.Fatalf("update payload must not carry the create key")
	}
	if _, hasSecond := got.values["PlanDetails[1].PlanType"]; hasSecond {
		t.Fatalf("fully blank plan row must be skipped")
	}
}

func TestSerializeCreateUsesTypeKeyAndFilePart(t *testing.T) {
	files := memFiles{"a.jpg": []byte("a")}
	form := composer.NewProjectFormState()
	form.Scalars.Name = "Green Acres"
	if err := form.ProjectImages.AddEntries(composer.NewLocalEntry("a.jpg", "/uploads/a.jpg")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := form.Plans.UpdateField(0, composer.PlanFieldType, "Villa"); err != nil {
		t.Fatalf("plan: %v", err)
	}

	var buf bytes.Buffer
	contentType, err := buildBody(&buf, &form, files, createEncoding, serializeOptions{builderID: "b-1", otp: "123456"})
	if err != nil {
		t.Fatalf("build body: %v", err)
	}
	got := parseMultipart(t, contentType, buf.Bytes())

	if got.values["PlanDetails[0].Type"][0] != "Villa" {
		t.Fatalf("create must use Type key: %v", got.values)
	}
	if _, ok := got.files["ProjectImages[0].File"]; !ok {
		t.Fatalf("create must use the File part key: %v", got.files)
	}
	if got.values["BuilderId"][0] != "b-1" || got.values["Otp"][0] != "123456" {
		t.Fatalf("builder/otp fields missing: %v", got.values)
	}
}

func TestSerializeCreateRejectsRemoteEntries(t *testing.T) {
	form := composer.NewProjectFormState()
	if err := form.ProjectImages.AddEntries(composer.NewRemoteEntry("https://cdn.example.com/x.jpg")); err != nil {
		t.Fatalf("add: %v", err)
	}
	var buf bytes.Buffer
	_, err := buildBody(&buf, &form, memFiles{}, createEncoding, serializeOptions{})
	if err == nil || !strings.Contains(err.Error(), "persisted image") {
		t.Fatalf("expected create to reject remote entries, got %v", err)
	}
}

func TestSerializeEmptyAmenitiesEmitsSingleEmptyField(t *testing.T) {
	form := composer.NewProjectFormState()
	var buf bytes.Buffer
	contentType, err := buildBody(&buf, &form, memFiles{}, createEncoding, serializeOptions{})
	if err != nil {
		t.Fatalf("build body: %v", err)
	}
	got := parseMultipart(t, contentType, buf.Bytes())

	ids := got.values["AmenityIds"]
	if len(ids) != 1 || ids[0] != "" {
		t.Fatalf("expected single empty AmenityIds field, got %v", ids)
	}
}

func TestSerializeAmenitiesRepeatedFields(t *testing.T) {
	form, files := sampleForm(t)
	var buf bytes.Buffer
	contentType, err := buildBody(&buf, form, files, updateEncoding, serializeOptions{})
	if err != nil {
		t.Fatalf("build body: %v", err)
	}
	got := parseMultipart(t, contentType, buf.Bytes())

	ids := got.values["AmenityIds"]
	if len(ids) != 2 || ids[0] != "2" || ids[1] != "14" {
		t.Fatalf("unexpected amenity ids: %v", ids)
	}
}

func TestSerializeScalarsStringCastBooleans(t *testing.T) {
	form, files := sampleForm(t)
	var buf bytes.Buffer
	contentType, err := buildBody(&buf, form, files, updateEncoding, serializeOptions{})
	if err != nil {
		t.Fatalf("build body: %v", err)
	}
	got := parseMultipart(t, contentType, buf.Bytes())

	if got.values["IsReraApproved"][0] != "true" || got.values["IsNA"][0] != "false" {
		t.Fatalf("booleans must be string-cast: %v", got.values)
	}
	if got.values["Name"][0] != "Skyline Towers" || got.values["StateId"][0] != "7" {
		t.Fatalf("scalar fields wrong: %v", got.values)
	}
	if got.values["ExclusiveFeatures"][0] != "Sky lounge" {
		t.Fatalf("features missing: %v", got.values)
	}
}

func TestSerializeMissingStagedFileIsError(t *testing.T) {
	form := composer.NewProjectFormState()
	if err := form.ProjectImages.AddEntries(composer.NewLocalEntry("gone.jpg", "/uploads/gone.jpg")); err != nil {
		t.Fatalf("add: %v", err)
	}
	var buf bytes.Buffer
	if _, err := buildBody(&buf, &form, memFiles{}, createEncoding, serializeOptions{}); err == nil {
		t.Fatalf("expected error for missing staged file")
	}
}
