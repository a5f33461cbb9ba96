package http

import (
	"errors"
	"net/http"

	"github.com/quietwire/courier/internal/api/domain"
	"github.com/quietwire/courier/internal/api/service"
	"github.com/quietwire/courier/pkg/couriersdk"
	"github.com/quietwire/courier/pkg/httpx"
	"github.com/quietwire/courier/pkg/idx"
	"github.com/quietwire/courier/pkg/slogx"
)

// MessagesHandler serves direct messages: send, inbox threads and per-peer
// history.
type MessagesHandler struct {
	MessageService *service.MessageService
}

func (h *MessagesHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req couriersdk.SendMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	receiver, err := idx.Parse(req.ReceiverID)
	if err != nil {
		couriersdk.NewAPIError(http.StatusBadRequest, "receiverId is not a valid user id").WriteError(w)
		return
	}

	sender := idx.ID(httpx.UserIDFromContext(ctx))
	msg, err := h.MessageService.SendMessage(ctx, sender, receiver, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			couriersdk.ErrUserNotFound.WriteError(w)
		case errors.Is(err, service.ErrSelfMessage):
			couriersdk.NewAPIError(http.StatusBadRequest, "cannot message yourself").WriteError(w)
		default:
			log.Error("failed to send message", "err", err)
			couriersdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toMessageDTO(msg))
}

func (h *MessagesHandler) HandleThreads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := idx.ID(httpx.UserIDFromContext(ctx))
	threads, err := h.MessageService.ListThreads(ctx, userID)
	if err != nil {
		log.Error("failed to list threads", "err", err)
		couriersdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]couriersdk.Thread, 0, len(threads))
	for _, th := range threads {
		out = append(out, couriersdk.Thread{
			Peer:        toUserDTO(th.Peer),
			LastMessage: toMessageDTO(th.LastMessage),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *MessagesHandler) HandleConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	peer, err := idx.Parse(r.PathValue("userId"))
	if err != nil {
		couriersdk.NewAPIError(http.StatusBadRequest, "userId is not a valid user id").WriteError(w)
		return
	}

	userID := idx.ID(httpx.UserIDFromContext(ctx))
	msgs, err := h.MessageService.ListConversation(ctx, userID, peer)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			couriersdk.ErrUserNotFound.WriteError(w)
			return
		}
		log.Error("failed to list conversation", "err", err)
		couriersdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]couriersdk.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageDTO(m))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func toMessageDTO(m domain.Message) couriersdk.Message {
	return couriersdk.Message{
		ID:         m.ID.String(),
		SenderID:   m.SenderID.String(),
		ReceiverID: m.ReceiverID.String(),
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}
