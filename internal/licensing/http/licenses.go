package http

import (
	"net/http"

	"github.com/aussiebroadwan/licensing/internal/licensing/service"
	"github.com/aussiebroadwan/licensing/pkg/httpx"
	"github.com/aussiebroadwan/licensing/pkg/licensesdk"
)

// LicensesHandler serves the operator license endpoints.
type LicensesHandler struct {
	Registry *service.LicenseRegistry
}

// HandleGenerate godoc
//
//	@Summary		Generate License Code
//	@Description	Issues a new single-use license code valid for duration_days once redeemed.
//	@Tags			Licenses
//	@Accept			json
//	@Produce		json
//	@Param			request	body		licensesdk.GenerateLicenseRequest	true	"Duration in days (1-3650)"
//	@Success		201		{object}	licensesdk.GenerateLicenseResponse	"success, key, license"
//	@Failure		400		{object}	licensesdk.ErrorResponse			"InvalidInput"
//	@Failure		401		{object}	licensesdk.ErrorResponse			"unauthorized"
//	@Failure		403		{object}	licensesdk.ErrorResponse			"insufficient_scope"
//	@Failure		500		{object}	licensesdk.ErrorResponse			"KeyGenerationExhausted"
//	@Failure		503		{object}	licensesdk.ErrorResponse			"StorageUnavailable"
//	@Security		BearerAuth
//	@Router			/v1/licenses [post].
func (h *LicensesHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req licensesdk.GenerateLicenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidBody(w, r, err)
		return
	}

	lic, err := h.Registry.Generate(r.Context(), req.DurationDays)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, licensesdk.GenerateLicenseResponse{
		Success: true,
		Key:     lic.Key,
		License: licenseView(lic),
	})
}

// HandleList godoc
//
//	@Summary		List License Codes
//	@Description	Returns every license code with its status, newest first.
//	@Tags			Licenses
//	@Produce		json
//	@Success		200	{object}	licensesdk.ListLicensesResponse	"licenses"
//	@Failure		401	{object}	licensesdk.ErrorResponse		"unauthorized"
//	@Failure		503	{object}	licensesdk.ErrorResponse		"StorageUnavailable"
//	@Security		BearerAuth
//	@Router			/v1/licenses [get].
func (h *LicensesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Registry.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]licensesdk.LicenseView, 0, len(list))
	for _, l := range list {
		views = append(views, licenseView(l))
	}
	httpx.WriteJSON(w, http.StatusOK, licensesdk.ListLicensesResponse{Licenses: views})
}

// HandleStats godoc
//
//	@Summary		License Statistics
//	@Description	Counts license codes per status.
//	@Tags			Licenses
//	@Produce		json
//	@Success		200	{object}	licensesdk.StatsResponse	"active, used, expired, total"
//	@Failure		401	{object}	licensesdk.ErrorResponse	"unauthorized"
//	@Failure		503	{object}	licensesdk.ErrorResponse	"StorageUnavailable"
//	@Security		BearerAuth
//	@Router			/v1/licenses/stats [get].
func (h *LicensesHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Registry.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.StatsResponse{
		Active:  counts.Active,
		Used:    counts.Used,
		Expired: counts.Expired,
		Total:   counts.Total(),
	})
}

// HandleGet godoc
//
//	@Summary		Get License Code
//	@Description	Looks a license code up by key. Keys are matched case-insensitively.
//	@Tags			Licenses
//	@Produce		json
//	@Param			key	path		string						true	"License key"
//	@Success		200	{object}	licensesdk.LicenseResponse	"success, license"
//	@Failure		404	{object}	licensesdk.ErrorResponse	"LicenseNotFound"
//	@Security		BearerAuth
//	@Router			/v1/licenses/{key} [get].
func (h *LicensesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	lic, err := h.Registry.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, licensesdk.LicenseResponse{Success: true, License: licenseView(lic)})
}

// HandleExpire godoc
//
//	@Summary		Expire License Code
//	@Description	Withdraws an unredeemed license code. Used codes cannot be expired.
//	@Tags			Licenses
//	@Produce		json
//	@Param			key	path		string						true	"License key"
//	@Success		200	{object}	licensesdk.LicenseResponse	"success, license"
//	@Failure		404	{object}	licensesdk.ErrorResponse	"LicenseNotFound"
//	@Failure		409	{object}	licensesdk.ErrorResponse	"LicenseAlreadyUsed"
//	@Failure		410	{object}	licensesdk.ErrorResponse	"LicenseExpired"
//	@Security		BearerAuth
//	@Router			/v1/licenses/{key}/expire [post].
func (h *LicensesHandler) HandleExpire(w http.ResponseWriter, r *http.Request) {
	lic, err := h.Registry.Expire(r.Context(), r.PathValue("key"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, licensesdk.LicenseResponse{Success: true, License: licenseView(lic)})
}
