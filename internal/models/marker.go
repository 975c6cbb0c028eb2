package models

// Marker represents a bookmarked location on the map.
type Marker struct {
	// ID is assigned by the store and increases with every insert.
	ID int64

	// Name is the display name of the marker. Never empty once persisted.
	Name string

	// Description is free text, nil when the client never provided one.
	Description *string

	// Lat is the latitude in degrees, within [-90, 90].
	Lat float64

	// Lng is the longitude in degrees, within [-180, 180].
	Lng float64

	// OwnerID references the user who created the marker.
	// Nil for markers created while authentication was disabled.
	OwnerID *int64

	// OwnerName is the owner's username, filled by the store on reads.
	OwnerName *string
}

// OwnedBy reports whether the marker belongs to the given user.
// A marker without an owner belongs to nobody.
func (m *Marker) OwnedBy(userID int64) bool {
	return m.OwnerID != nil && *m.OwnerID == userID
}

// MarkerInput is a fully parsed creation request.
type MarkerInput struct {
	Name        string   `validate:"required,max=120"`
	Description *string
	Lat         float64 `validate:"gte=-90,lte=90"`
	Lng         float64 `validate:"gte=-180,lte=180"`
}

// MarkerPatch is a parsed partial update. Nil fields are left unchanged.
// ClearDescription removes the description and wins over Description.
type MarkerPatch struct {
	Name             *string
	Description      *string
	ClearDescription bool
	Lat              *float64
	Lng              *float64
}

// Empty reports whether the patch would change nothing.
func (p MarkerPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && !p.ClearDescription && p.Lat == nil && p.Lng == nil
}

// Apply copies the set fields of the patch onto m.
func (p MarkerPatch) Apply(m *Marker) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Description != nil {
		desc := *p.Description
		m.Description = &desc
	}
	if p.ClearDescription {
		m.Description = nil
	}
	if p.Lat != nil {
		m.Lat = *p.Lat
	}
	if p.Lng != nil {
		m.Lng = *p.Lng
	}
}
