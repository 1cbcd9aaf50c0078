package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/licensing/internal/licensing/service"
	"github.com/aussiebroadwan/licensing/pkg/httpx"
	"github.com/aussiebroadwan/licensing/pkg/licensesdk"
	"github.com/aussiebroadwan/licensing/pkg/slogx"
)

// StatusForKind maps a service error kind to its HTTP status.
func StatusForKind(k service.Kind) int {
	switch k {
	case service.KindInvalidInput:
		return http.StatusBadRequest
	case service.KindUsernameTaken, service.KindLicenseAlreadyUsed, service.KindConflict:
		return http.StatusConflict
	case service.KindLicenseNotFound:
		return http.StatusNotFound
	case service.KindLicenseExpired:
		return http.StatusGone
	case service.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders err as the failure variant of a result.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		slogx.FromContext(r.Context()).Error("unclassified service error", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, licensesdk.ErrorResponse{
			Code:    licensesdk.CodeInternal,
			Message: "internal error",
		})
		return
	}

	kind := svcErr.Kind
	if kind == service.KindConflict {
		kind = service.KindLicenseAlreadyUsed
	}
	httpx.WriteJSON(w, StatusForKind(kind), licensesdk.ErrorResponse{
		Code:    string(kind),
		Message: svcErr.Message,
		Fields:  svcErr.Fields,
	})
}

// writeInvalidBody rejects an undecodable request body. The decoder detail
// is logged, not returned.
func writeInvalidBody(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Debug("rejected request body", "err", err)
	httpx.WriteJSON(w, http.StatusBadRequest, licensesdk.ErrorResponse{
		Code:    licensesdk.CodeInvalidInput,
		Message: "malformed JSON body",
	})
}
