package server

import (
	"errors"
	"net/http"

	"github.com/alfredjeanlab/rwa/internal/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errorKind pairs a domain error with its HTTP status and gRPC code.
type errorKind struct {
	err  error
	http int
	code codes.Code
}

var errorKinds = []errorKind{
	{model.ErrConnectInProgress, http.StatusConflict, codes.Aborted},
	{model.ErrConnectAborted, http.StatusConflict, codes.Aborted},
	{model.ErrAlreadyConnected, http.StatusConflict, codes.FailedPrecondition},
	{model.ErrNotConnected, http.StatusConflict, codes.FailedPrecondition},
	{model.ErrProviderDenied, http.StatusUnprocessableEntity, codes.FailedPrecondition},
	{model.ErrAddressUnavailable, http.StatusUnprocessableEntity, codes.FailedPrecondition},
	{model.ErrNetworkQueryFailed, http.StatusUnprocessableEntity, codes.FailedPrecondition},
	{model.ErrNetworkMismatch, http.StatusUnprocessableEntity, codes.FailedPrecondition},
	{model.ErrComplianceFetchFailed, http.StatusServiceUnavailable, codes.Unavailable},
	{model.ErrTransferSubmissionFailed, http.StatusBadGateway, codes.Internal},
	{errNoJournal, http.StatusServiceUnavailable, codes.Unavailable},
	{errNotFound, http.StatusNotFound, codes.NotFound},
}

func classify(err error) (int, codes.Code) {
	var ie inputError
	if errors.As(err, &ie) {
		return http.StatusBadRequest, codes.InvalidArgument
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.http, k.code
		}
	}
	return http.StatusInternalServerError, codes.Internal
}

// httpStatus maps a service error to an HTTP status code.
func httpStatus(err error) int {
	code, _ := classify(err)
	return code
}

// toStatus converts a service error into a gRPC status error. Errors that
// already carry a status pass through unchanged.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	_, code := classify(err)
	return status.Error(code, err.Error())
}
