package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/errors"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils/response"
)

// requireViewer resolves the authenticated caller or writes a 401.
func requireViewer(w http.ResponseWriter, r *http.Request) (models.Viewer, *slog.Logger, bool) {
	logger := middleware.LoggerFromContext(r.Context())

	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		logger.Warn("Unauthenticated request reached a protected handler")
		response.Error(w, errors.UnauthorizedError("Authentication required"))

		return models.Viewer{}, logger, false
	}

	return viewer, logger, true
}
