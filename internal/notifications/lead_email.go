package notifications

import (
	"bytes"
	"html/template"

	"estatedesk-backend/internal/leads"
)

const leadNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New interest lead</h3>
  <p><strong>Listing:</strong> {{.ListingName}}</p>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Phone:</strong> {{.Phone}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>ID:</strong> {{.ID}}</p>
  <p><strong>Message:</strong><br/>{{.Message}}</p>
</body>
</html>`

var leadNotificationTmpl = template.Must(template.New("lead_notification").Parse(leadNotificationTemplate))

func buildLeadNotificationHTML(lead leads.Lead) (string, error) {
	var buf bytes.Buffer
	if err := leadNotificationTmpl.Execute(&buf, lead); err != nil {
		return "", err
	}
	return buf.String(), nil
}
