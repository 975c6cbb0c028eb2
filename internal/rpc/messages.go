package rpc

import (
	"github.com/zhenghongliu48-sys/mymap/internal/models"
	"github.com/zhenghongliu48-sys/mymap/internal/validation"
)

// Marker is the RPC representation of a marker.
type Marker struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	UserID      *int64  `json:"user_id,omitempty"`
	Owner       *string `json:"owner,omitempty"`
}

func toMarker(m *models.Marker) *Marker {
	return &Marker{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Lat:         m.Lat,
		Lng:         m.Lng,
		UserID:      m.OwnerID,
		Owner:       m.OwnerName,
	}
}

// User is the RPC representation of an account.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"created_at"`
}

func toUser(u *models.User) *User {
	return &User{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

type ListMarkersRequest struct{}

type ListMarkersResponse struct {
	Markers []*Marker `json:"markers"`
}

type GetMarkerRequest struct {
	ID int64 `json:"id"`
}

type MarkerResponse struct {
	Marker *Marker `json:"marker"`
}

type CreateMarkerRequest struct {
	validation.CreateMarkerRequest
}

type UpdateMarkerRequest struct {
	ID int64 `json:"id"`
	validation.UpdateMarkerRequest
}

type DeleteMarkerRequest struct {
	ID int64 `json:"id"`
}

type DeleteMarkerResponse struct {
	Message string `json:"message"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User *User `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
