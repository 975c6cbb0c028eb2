package rpc

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/zhenghongliu48-sys/mymap/internal/errs"
)

// toConnectError maps service error kinds to Connect codes. Errors of
// unknown kind are logged and returned without their cause.
func toConnectError(logger *slog.Logger, err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, errs.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, errs.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, errs.ErrPermissionDenied):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, errs.ErrUnauthenticated):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, errs.ErrDuplicateUsername):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		logger.Error("Unhandled RPC error", "error", err)
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
}
