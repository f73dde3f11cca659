package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"papertrader/src/model"

	logger "github.com/sirupsen/logrus"
)

type settingsStore interface {
	Load(ctx context.Context) (model.Settings, error)
	Save(ctx context.Context, in model.Settings) error
}

// GetSettingsHandler returns the persisted preferences, defaults included.
func GetSettingsHandler(store settingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := store.Load(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to load settings")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}

// PutSettingsHandler validates and persists the preferences.
func PutSettingsHandler(store settingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.Settings
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := store.Save(r.Context(), in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		settings, err := store.Load(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to reload settings")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}
