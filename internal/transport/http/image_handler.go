package http

import (
	"io"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"food-quiz-service/internal/app"
)

// ImageHandler streams the picture of a player's current dish. The URL
// carries only the player and round, never the dish.
type ImageHandler struct {
	service *app.GameService
	images  fs.FS
	logger  zerolog.Logger
}

// NewImageHandler serves pictures from images; a nil images answers 404.
func NewImageHandler(service *app.GameService, images fs.FS, logger zerolog.Logger) *ImageHandler {
	return &ImageHandler{service: service, images: images, logger: logger}
}

func imageURL(playerID, roundID string) string {
	q := url.Values{}
	q.Set("playerId", playerID)
	q.Set("round", roundID)
	return "/image?" + q.Encode()
}

func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}
	game, err := h.service.Game(playerID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	state := game.State()
	if state.Round == nil || h.images == nil {
		http.NotFound(w, r)
		return
	}
	if roundID := r.URL.Query().Get("round"); roundID != "" && roundID != state.Round.ID {
		http.Error(w, "round is over", http.StatusGone)
		return
	}

	f, err := h.images.Open(state.Round.Correct.ImagePath())
	if err != nil {
		h.logger.Warn().Err(err).Str("player", playerID).Msg("open dish image")
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Debug().Err(err).Msg("write dish image")
	}
}
