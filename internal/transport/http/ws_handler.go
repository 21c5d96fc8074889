package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"food-quiz-service/internal/app"
	"food-quiz-service/internal/domain"
)

var (
	errInvalidPayload     = errors.New("invalid payload")
	errUnsupportedMessage = errors.New("unsupported message type")
)

type WSHandler struct {
	service  *app.GameService
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type guessPayload struct {
	Choice string `json:"choice"`
}

type categoriesPayload struct {
	Enabled map[domain.Category]bool `json:"enabled"`
}

type choicesPayload struct {
	Choices int `json:"choices"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type choicePayload struct {
	DishID domain.DishID `json:"dishId"`
	Label  string        `json:"label"`
}

type roundPayload struct {
	ID       string            `json:"id"`
	Question int               `json:"question"`
	Label    string            `json:"label"`
	Image    string            `json:"image"`
	Rows     [][]choicePayload `json:"rows"`
}

type completePayload struct {
	Stats   domain.Stats `json:"stats"`
	Message string       `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and plays one game per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}
	logger := h.logger.With().Str("player", playerID).Logger()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()
	// drop the server read timeout inherited by the hijacked connection
	_ = conn.SetReadDeadline(time.Time{})

	events := newWSEvents(playerID, logger)
	game, err := h.service.Join(r.Context(), playerID, events)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range events.send {
			if err := conn.WriteJSON(msg); err != nil {
				logger.Warn().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(r, game, inbound, events); err != nil {
			events.push("error", errorPayload{Message: err.Error()})
		}
	}

	h.service.Leave(r.Context(), playerID, game)
	events.close()
	<-writerDone
}

func (h *WSHandler) dispatch(r *http.Request, game *app.Game, inbound inboundMessage, events *wsEvents) error {
	ctx := r.Context()
	switch inbound.Type {
	case "guess":
		var payload guessPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		_, err := game.SubmitGuess(ctx, payload.Choice)
		return err
	case "advance":
		return game.Advance(ctx)
	case "reset":
		return game.Reset(ctx)
	case "categories":
		var payload categoriesPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		if err := game.SetCategoriesEnabled(payload.Enabled); err != nil {
			return err
		}
		return game.Reset(ctx)
	case "choices":
		var payload choicesPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		rows, err := domain.GuessRowsFromChoices(payload.Choices)
		if err != nil {
			return err
		}
		return game.SetGuessRows(ctx, rows)
	case "state":
		events.push("state", game.State())
		return nil
	default:
		return errUnsupportedMessage
	}
}

// wsEvents forwards game events to the connection writer. Events may arrive
// from the advance timer after the read loop ended, so pushes after close
// are dropped.
type wsEvents struct {
	playerID string
	logger   zerolog.Logger

	mu     sync.Mutex
	closed bool
	send   chan outboundMessage[any]
}

func newWSEvents(playerID string, logger zerolog.Logger) *wsEvents {
	return &wsEvents{
		playerID: playerID,
		logger:   logger,
		send:     make(chan outboundMessage[any], 32),
	}
}

func (e *wsEvents) OnRoundReady(round domain.Round) {
	e.push("round", newRoundPayload(e.playerID, round))
}

func (e *wsEvents) OnGuessOutcome(outcome domain.Outcome) {
	e.push("outcome", outcome)
}

func (e *wsEvents) OnQuizComplete(stats domain.Stats) {
	e.push("quizComplete", completePayload{Stats: stats, Message: stats.String()})
}

func (e *wsEvents) push(typ string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.send <- outboundMessage[any]{Type: typ, Payload: payload}:
	default:
		e.logger.Warn().Str("type", typ).Msg("ws send buffer full, message dropped")
	}
}

func (e *wsEvents) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.send)
	}
}

func newRoundPayload(playerID string, round domain.Round) roundPayload {
	payload := roundPayload{
		ID:       round.ID,
		Question: round.Question,
		Label:    app.GameState{Question: round.Question, Total: domain.QuestionsPerQuiz}.Label(),
		Image:    imageURL(playerID, round.ID),
	}
	for _, row := range round.Grid() {
		choices := make([]choicePayload, 0, len(row))
		for _, id := range row {
			choices = append(choices, choicePayload{DishID: id, Label: id.DisplayName()})
		}
		payload.Rows = append(payload.Rows, choices)
	}
	return payload
}
