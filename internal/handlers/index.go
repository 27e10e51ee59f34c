package handlers

import (
	"log/slog"
	"net/http"

	pkghttp "github.com/clmblockchain/devpool/pkg/http"
)

// IndexHandler serves the public landing page data
type IndexHandler struct {
	service RegistrationServiceInterface
	logger  *slog.Logger
}

func NewIndexHandler(service RegistrationServiceInterface, logger *slog.Logger) *IndexHandler {
	return &IndexHandler{
		service: service,
		logger:  logger,
	}
}

// IndexResponse carries what the registration form needs to render
type IndexResponse struct {
	Message         string `json:"message"`
	TotalDevelopers int    `json:"total_developers"`
}

// Index returns the landing payload. A failed count degrades to zero rather
// than taking the page down.
func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountDevelopers(r.Context())
	if err != nil {
		h.logger.Error("failed to count developers", slog.Any("error", err))
		count = 0
	}

	pkghttp.WriteJSON(w, http.StatusOK, IndexResponse{
		Message:         "Developer registration is open",
		TotalDevelopers: count,
	})
}
