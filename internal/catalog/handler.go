package catalog

import (
	"net/http"

	"estatedesk-backend/internal/transport"
)

// Amenities serves the static catalog split the way the form renders it:
// checkboxes and the furnishing radio group.
func Amenities(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"checkboxes": Checkboxes(),
		"furnishing": Furnishing(),
	})
}
