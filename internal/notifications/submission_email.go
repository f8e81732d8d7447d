package notifications

import (
	"bytes"
	"html/template"
)

const submissionConfirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hello {{.ContactName}},</p>
  <p>Your project <strong>{{.ProjectName}}</strong> has been submitted to the
  listing portal.</p>
  <p>Our team will review it and reach out if anything is missing.</p>
  <p>Thank you.</p>
</body>
</html>`

var submissionConfirmationTmpl = template.Must(template.New("submission_confirmation").Parse(submissionConfirmationTemplate))

func buildSubmissionConfirmationHTML(contactName, projectName string) (string, error) {
	data := struct {
		ContactName string
		ProjectName string
	}{
		ContactName: contactName,
		ProjectName: projectName,
	}
	if data.ContactName == "" {
		data.ContactName = "there"
	}
	var buf bytes.Buffer
	if err := submissionConfirmationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
