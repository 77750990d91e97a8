package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/accountabot/internal/bot"
	"github.com/templui/accountabot/internal/ctxkeys"
	"github.com/templui/accountabot/internal/repository"
	"github.com/templui/accountabot/internal/service"
	"github.com/templui/accountabot/internal/validation"
)

// maxBodyBytes caps a command request body.
const maxBodyBytes = 64 << 10

// CommandRequest is what a chat adapter posts for one slash command.
type CommandRequest struct {
	UserID    string            `json:"userId"`
	ChannelID string            `json:"channelId"`
	Args      map[string]string `json:"args"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type CommandHandler struct {
	bot *bot.Bot
}

func NewCommandHandler(b *bot.Bot) *CommandHandler {
	return &CommandHandler{
		bot: b,
	}
}

// Handle serves POST /commands/{name}.
func (h *CommandHandler) Handle(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req CommandRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "userId is required"})
		return
	}

	ctx := r.Context()

	cmd, err := bot.Decode(name, req.Args)
	if err != nil {
		slog.DebugContext(ctx, "command rejected", "command", name, "user_id", req.UserID, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	reply, err := h.bot.Dispatch(req.UserID, req.ChannelID, cmd)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "command failed", "command", cmd.Name(), "user_id", req.UserID, "request_id", ctxkeys.RequestID(ctx), "error", err)
			writeJSON(w, status, errorResponse{Error: "internal error"})
			return
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	slog.InfoContext(ctx, "command handled", "command", cmd.Name(), "user_id", req.UserID, "channel_id", req.ChannelID)
	writeJSON(w, http.StatusOK, reply)
}

func statusFor(err error) int {
	var perr *bot.ParseError
	switch {
	case errors.As(err, &perr),
		errors.Is(err, service.ErrEmptyUser),
		errors.Is(err, service.ErrEmptyDescription),
		errors.Is(err, service.ErrEmptyChannel),
		errors.Is(err, service.ErrInvalidDueDate),
		errors.Is(err, service.ErrEmptyEvidence),
		errors.Is(err, validation.ErrTooLong),
		errors.Is(err, validation.ErrEncoding):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidGoalReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, repository.ErrGoalNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
