package requests

import (
	"github.com/relieflink/backend/internal/models"
)

// ComponentsFromNeeds builds one fulfillment component per declared need, all in
// status new. Duplicate resource types collapse onto the first occurrence so the
// (request_id, resource_type) uniqueness invariant holds before the store even
// sees the rows.
func ComponentsFromNeeds(requestID int64, needs []models.Need) []models.Component {
	seen := make(map[models.ResourceType]bool, len(needs))
	components := make([]models.Component, 0, len(needs))
	for _, n := range needs {
		if seen[n.Type] {
			continue
		}
		seen[n.Type] = true
		components = append(components, models.Component{
			RequestID: requestID,
			Type:      n.Type,
			Quantity:  n.Quantity,
			Status:    models.ComponentNew,
		})
	}
	return components
}
