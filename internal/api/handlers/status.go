package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"seriestracker/internal/models"
)

// StatusHandler reports library-wide tracking counts
type StatusHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalSeries int `json:"total_series"`
	InProgress  int `json:"in_progress"`
	Finished    int `json:"finished"`
	Chats       int `json:"chats"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all, err := h.db.GetAllSeries()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get series")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := StatusResponse{TotalSeries: len(all)}
	chats := make(map[int64]struct{})
	for _, series := range all {
		if series.Finished {
			response.Finished++
		} else {
			response.InProgress++
		}
		chats[series.ChatID] = struct{}{}
	}
	response.Chats = len(chats)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
