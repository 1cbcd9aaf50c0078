package http

import (
	"net/http"

	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
	"github.com/aussiebroadwan/licensing/internal/licensing/service"
	"github.com/aussiebroadwan/licensing/pkg/httpx"
	"github.com/aussiebroadwan/licensing/pkg/licensesdk"
)

// ActivateHandler serves POST /v1/tenants/activate.
type ActivateHandler struct {
	ActivationService *service.TenantActivationService
}

// ServeHTTP godoc
//
//	@Summary		Activate Tenant
//	@Description	Redeems a license code and provisions a tenant with its administrator account.
//	@Description	A code can be redeemed exactly once, even under concurrent requests.
//	@Tags			Tenants
//	@Accept			json
//	@Produce		json
//	@Param			request	body		licensesdk.ActivateTenantRequest	true	"Registrant and license key"
//	@Success		201		{object}	licensesdk.ActivateTenantResponse	"success, tenant"
//	@Failure		400		{object}	licensesdk.ErrorResponse			"InvalidInput"
//	@Failure		404		{object}	licensesdk.ErrorResponse			"LicenseNotFound"
//	@Failure		409		{object}	licensesdk.ErrorResponse			"UsernameTaken, LicenseAlreadyUsed"
//	@Failure		410		{object}	licensesdk.ErrorResponse			"LicenseExpired"
//	@Failure		429		{object}	licensesdk.ErrorResponse			"rate_limit_exceeded"
//	@Failure		500		{object}	licensesdk.ErrorResponse			"ProvisioningFailed"
//	@Failure		503		{object}	licensesdk.ErrorResponse			"StorageUnavailable"
//	@Router			/v1/tenants/activate [post].
func (h *ActivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req licensesdk.ActivateTenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidBody(w, r, err)
		return
	}

	reg := domain.Registrant{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
		Phone:    req.Phone,
	}
	tenant, err := h.ActivationService.Activate(r.Context(), reg, req.LicenseKey)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, licensesdk.ActivateTenantResponse{
		Success: true,
		Tenant:  tenantView(tenant),
	})
}
