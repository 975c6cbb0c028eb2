package rpc

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/zhenghongliu48-sys/mymap/internal/middleware"
	"github.com/zhenghongliu48-sys/mymap/internal/service"
)

// MarkerServer implements the mymap.v1.MarkerService procedures.
type MarkerServer struct {
	markers *service.MarkerService
	logger  *slog.Logger
}

// NewMarkerServer creates a new MarkerServer backed by the marker service.
func NewMarkerServer(markers *service.MarkerService, logger *slog.Logger) *MarkerServer {
	return &MarkerServer{markers: markers, logger: logger}
}

// ListMarkers returns every marker, newest first.
func (s *MarkerServer) ListMarkers(ctx context.Context, req *connect.Request[ListMarkersRequest]) (*connect.Response[ListMarkersResponse], error) {
	markers, err := s.markers.List(ctx)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}

	out := make([]*Marker, 0, len(markers))
	for _, m := range markers {
		out = append(out, toMarker(m))
	}
	return connect.NewResponse(&ListMarkersResponse{Markers: out}), nil
}

// GetMarker returns one marker by ID.
func (s *MarkerServer) GetMarker(ctx context.Context, req *connect.Request[GetMarkerRequest]) (*connect.Response[MarkerResponse], error) {
	marker, err := s.markers.Get(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}
	return connect.NewResponse(&MarkerResponse{Marker: toMarker(marker)}), nil
}

// CreateMarker stores a new marker owned by the caller.
func (s *MarkerServer) CreateMarker(ctx context.Context, req *connect.Request[CreateMarkerRequest]) (*connect.Response[MarkerResponse], error) {
	input, err := req.Msg.Input()
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}

	marker, err := s.markers.Create(ctx, middleware.GetIdentity(ctx), input)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}
	return connect.NewResponse(&MarkerResponse{Marker: toMarker(marker)}), nil
}

// UpdateMarker applies a partial update.
func (s *MarkerServer) UpdateMarker(ctx context.Context, req *connect.Request[UpdateMarkerRequest]) (*connect.Response[MarkerResponse], error) {
	marker, err := s.markers.Update(ctx, middleware.GetIdentity(ctx), req.Msg.ID, req.Msg)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}
	return connect.NewResponse(&MarkerResponse{Marker: toMarker(marker)}), nil
}

// DeleteMarker removes a marker.
func (s *MarkerServer) DeleteMarker(ctx context.Context, req *connect.Request[DeleteMarkerRequest]) (*connect.Response[DeleteMarkerResponse], error) {
	if err := s.markers.Delete(ctx, middleware.GetIdentity(ctx), req.Msg.ID); err != nil {
		return nil, toConnectError(s.logger, err)
	}
	return connect.NewResponse(&DeleteMarkerResponse{Message: "marker deleted"}), nil
}
