package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/service/interpreter"
)

type chatService interface {
	Send(ctx context.Context, message string) (*interpreter.Result, error)
}

type replyInterpreter interface {
	Interpret(ctx context.Context, reply string) (*interpreter.Result, error)
}

// ChatHandler serves the conversational endpoints.
type ChatHandler struct {
	chat         chatService
	interp       replyInterpreter
	maxBodyBytes int64
	log          *slog.Logger
}

// NewChatHandler creates a ChatHandler. A non-positive maxBodyBytes falls
// back to 64 KiB.
func NewChatHandler(chat chatService, interp replyInterpreter, maxBodyBytes int64, logger *slog.Logger) *ChatHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 64 << 10
	}
	return &ChatHandler{
		chat:         chat,
		interp:       interp,
		maxBodyBytes: maxBodyBytes,
		log:          logger.With("handler", "chat"),
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type interpretRequest struct {
	Reply string `json:"reply"`
}

type chatResponse struct {
	Response    string   `json:"response"`
	Lines       []string `json:"lines,omitempty"`
	Actions     int      `json:"actions"`
	Passthrough bool     `json:"passthrough"`
}

// Chat handles POST /chat: the message goes to the assistant and the
// actions in its reply are executed.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.chat.Send(r.Context(), req.Message)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toChatResponse(res))
}

// Interpret handles POST /interpret: an already produced assistant reply
// is executed as is.
func (h *ChatHandler) Interpret(w http.ResponseWriter, r *http.Request) {
	var req interpretRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.interp.Interpret(r.Context(), req.Reply)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toChatResponse(res))
}

func (h *ChatHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if !requireUser(w, r) {
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *ChatHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	handleError(w, r, h.log, err)
}

func toChatResponse(res *interpreter.Result) chatResponse {
	return chatResponse{
		Response:    res.Transcript,
		Lines:       res.Lines,
		Actions:     res.Actions,
		Passthrough: res.Passthrough,
	}
}

// handleError maps domain errors to HTTP statuses shared by all handlers.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timed out")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
