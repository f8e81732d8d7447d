package builderapi

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"estatedesk-backend/internal/composer"
)

// FileSource resolves a staged-file id to its bytes. The uploads store
// satisfies it.
type FileSource interface {
	Open(id string) ([]byte, error)
}

// serializeOptions carries the per-request extras the flat payload needs.
type serializeOptions struct {
	projectID string
	builderID string
	otp       string
}

// writeForm flattens a ProjectFormState into mw using the endpoint's field
// encoding. It is pure data transformation; the only error paths are a
// missing staged file (an upstream precondition violation) and writer
// failures.
func writeForm(mw *multipart.Writer, form *composer.ProjectFormState, files FileSource, enc fieldEncoding, opts serializeOptions) error {
	if err := writeScalars(mw, form.Scalars, opts); err != nil {
		return err
	}
	if err := writeAmenities(mw, form.Amenities.Resolved()); err != nil {
		return err
	}
	for _, group := range form.Groups() {
		if err := writeImageGroup(mw, group, files, enc); err != nil {
			return err
		}
	}
	if err := writePlanRows(mw, form.Plans.Rows, enc); err != nil {
		return err
	}
	for _, feature := range form.Features.Items {
		if err := mw.WriteField("ExclusiveFeatures", feature); err != nil {
			return err
		}
	}
	return nil
}

func writeScalars(mw *multipart.Writer, s composer.ScalarFields, opts serializeOptions) error {
	fields := []struct {
		key   string
		value string
	}{
		{"Name", s.Name},
		{"ProjectType", s.ProjectType},
		{"Description", s.Description},
		{"Price", s.Price},
		{"Area", s.Area},
		{"Beds", s.Beds},
		{"Status", s.Status},
		{"Possession", s.Possession},
		{"Address", s.Address},
		{"Locality", s.Locality},
		{"CityId", s.CityID},
		{"StateId", s.StateID},
		{"IsNA", strconv.FormatBool(s.IsNA)},
		{"IsReraApproved", strconv.FormatBool(s.IsReraApproved)},
		{"IsOCApproved", strconv.FormatBool(s.IsOCApproved)},
		{"ReraNumber", s.ReraNumber},
		{"ReraDate", s.ReraDate},
		{"ProjectAreaAcres", s.ProjectAreaAcres},
		{"LaunchDate", s.LaunchDate},
		{"ExpectedCompletionDate", s.ExpectedCompletionDate},
		{"OCDate", s.OCDate},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.key, f.value); err != nil {
			return err
		}
	}
	if opts.projectID != "" {
		if err := mw.WriteField("ProjectId", opts.projectID); err != nil {
			return err
		}
	}
	if opts.builderID != "" {
		if err := mw.WriteField("BuilderId", opts.builderID); err != nil {
			return err
		}
	}
	if opts.otp != "" {
		if err := mw.WriteField("Otp", opts.otp); err != nil {
			return err
		}
	}
	return nil
}

// writeAmenities emits one field per selected id. The API requires the key
// to be present even with no selection, so an empty set becomes a single
// empty field.
func writeAmenities(mw *multipart.Writer, ids []string) error {
	if len(ids) == 0 {
		return mw.WriteField("AmenityIds", "")
	}
	for _, id := range ids {
		if err := mw.WriteField("AmenityIds", id); err != nil {
			return err
		}
	}
	return nil
}

// writeImageGroup emits the ordered dual encoding: every entry carries an
// IsMain flag plus either a file part (local) or an ImageUrl field (remote),
// never both. Update must distinguish "keep this image" from "upload this
// one" within the same ordered list.
func writeImageGroup(mw *multipart.Writer, group *composer.ImageGroup, files FileSource, enc fieldEncoding) error {
	prefix, ok := groupPrefixes[string(group.Kind)]
	if !ok {
		return fmt.Errorf("unknown image group %q", group.Kind)
	}
	for i, entry := range group.Entries {
		isMainKey := fmt.Sprintf("%s[%d].IsMain", prefix, i)
		if err := mw.WriteField(isMainKey, strconv.FormatBool(group.IsMain(i))); err != nil {
			return err
		}

		if entry.IsLocal() {
			data, err := files.Open(entry.StagedID)
			if err != nil {
				return fmt.Errorf("staged image %s: %w", entry.StagedID, err)
			}
			fileKey := fmt.Sprintf("%s[%d].%s", prefix, i, enc.fileKey)
			part, err := mw.CreateFormFile(fileKey, entry.StagedID)
			if err != nil {
				return err
			}
			if _, err := part.Write(data); err != nil {
				return err
			}
			continue
		}

		if !enc.allowsRemote {
			return fmt.Errorf("create payload cannot reference persisted image %q", entry.RemoteURL)
		}
		urlKey := fmt.Sprintf("%s[%d].ImageUrl", prefix, i)
		if err := mw.WriteField(urlKey, entry.RemoteURL); err != nil {
			return err
		}
	}
	return nil
}

// writePlanRows emits one indexed triple per row with at least one non-blank
// field; fully blank rows (including the editor's floor row) are skipped.
// The index counts emitted rows, not source rows, so skipping leaves no gap.
func writePlanRows(mw *multipart.Writer, rows []composer.PlanDetailRow, enc fieldEncoding) error {
	n := 0
	for _, row := range rows {
		if row.IsBlank() {
			continue
		}
		if err := mw.WriteField(fmt.Sprintf("PlanDetails[%d].%s", n, enc.planTypeKey), row.Type); err != nil {
			return err
		}
		if err := mw.WriteField(fmt.Sprintf("PlanDetails[%d].Area", n), row.Area); err != nil {
			return err
		}
		if err := mw.WriteField(fmt.Sprintf("PlanDetails[%d].Price", n), row.Price); err != nil {
			return err
		}
		n++
	}
	return nil
}

// buildBody serializes the form into a ready-to-send multipart body and
// returns its content type.
func buildBody(w io.Writer, form *composer.ProjectFormState, files FileSource, enc fieldEncoding, opts serializeOptions) (string, error) {
	mw := multipart.NewWriter(w)
	if err := writeForm(mw, form, files, enc, opts); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	return mw.FormDataContentType(), nil
}
