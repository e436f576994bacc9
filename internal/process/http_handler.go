package process

import (
	"errors"
	"net/http"
	"strconv"

	"obsprocess/internal/httpx"
	"obsprocess/internal/provider"
)

type HTTPHandler struct {
	svc    *Service
	secret string
}

func NewHTTPHandler(svc *Service, secret string) *HTTPHandler {
	return &HTTPHandler{svc: svc, secret: secret}
}

func (h *HTTPHandler) authorized(w http.ResponseWriter, r *http.Request) bool {
	if h.secret != "" && r.Header.Get("X-Internal-Secret") != h.secret {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return false
	}
	return true
}

// Process handles POST /internal/jobs/process?providers=<mask|names>&activate=<bool>
func (h *HTTPHandler) Process(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	mask, err := provider.ParseMask(r.URL.Query().Get("providers"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_PROVIDERS", err.Error(), []httpx.ErrorDetail{{Field: "providers", Message: err.Error()}})
		return
	}
	activate := false
	if v := r.URL.Query().Get("activate"); v != "" {
		activate, err = strconv.ParseBool(v)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_ACTIVATE", "activate must be a boolean", []httpx.ErrorDetail{{Field: "activate", Message: err.Error()}})
			return
		}
	}
	ok, err := h.svc.TryRun(r.Context(), mask, activate)
	if errors.Is(err, ErrRunInProgress) {
		httpx.JSONError(w, r, http.StatusConflict, "RUN_IN_PROGRESS", err.Error(), nil)
		return
	}
	if !ok {
		httpx.JSONError(w, r, http.StatusInternalServerError, "PROCESS_FAILED", "process run did not succeed, see logs", nil)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{"message": "process run completed", "providers": mask.String(), "activated": activate}, nil)
}

// Copy handles POST /internal/jobs/copy?provider=<name>
func (h *HTTPHandler) Copy(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	p, err := provider.Parse(r.URL.Query().Get("provider"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_PROVIDER", err.Error(), []httpx.ErrorDetail{{Field: "provider", Message: err.Error()}})
		return
	}
	ok, err := h.svc.TryCopyProviderData(r.Context(), p)
	if errors.Is(err, ErrRunInProgress) {
		httpx.JSONError(w, r, http.StatusConflict, "RUN_IN_PROGRESS", err.Error(), nil)
		return
	}
	if !ok {
		httpx.JSONError(w, r, http.StatusInternalServerError, "COPY_FAILED", "copy provider data did not succeed, see logs", nil)
		return
	}

	httpx.JSONSuccess(w, r, map[string]string{"message": "provider data copied", "provider": p.String()}, nil)
}
