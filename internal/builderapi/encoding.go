package builderapi

// fieldEncoding isolates the naming differences between the create and
// update endpoints. The two use different plan-type keys and different
// file-part keys, and only update may reference already-persisted images by
// URL; conflating them corrupts the payload.
type fieldEncoding struct {
	planTypeKey  string
	fileKey      string
	allowsRemote bool
}

var (
	createEncoding = fieldEncoding{
		planTypeKey:  "Type",
		fileKey:      "File",
		allowsRemote: false,
	}
	updateEncoding = fieldEncoding{
		planTypeKey:  "PlanType",
		fileKey:      "file",
		allowsRemote: true,
	}
)

// groupPrefixes maps a composer group to its indexed field prefix.
var groupPrefixes = map[string]string{
	"project": "ProjectImages",
	"amenity": "AmenityImages",
	"floor":   "FloorImages",
}
