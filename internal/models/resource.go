package models

// ResourceType is a relief resource category. The set is closed; unknown types are
// rejected at the API boundary rather than stored.
type ResourceType string

const (
	ResourceFood       ResourceType = "food"
	ResourceWater      ResourceType = "water"
	ResourceMedicine   ResourceType = "medicine"
	ResourceShelter    ResourceType = "shelter"
	ResourceClothing   ResourceType = "clothing"
	ResourceRescue     ResourceType = "rescue"
	ResourceSanitation ResourceType = "sanitation"
)

// ResourceTypes lists every valid resource type in display order. Analytics iterates
// this slice so per-type maps always carry the full set.
var ResourceTypes = []ResourceType{
	ResourceFood,
	ResourceWater,
	ResourceMedicine,
	ResourceShelter,
	ResourceClothing,
	ResourceRescue,
	ResourceSanitation,
}

// ValidResourceType reports whether t is one of the known resource types.
func ValidResourceType(t ResourceType) bool {
	for _, rt := range ResourceTypes {
		if rt == t {
			return true
		}
	}
	return false
}
