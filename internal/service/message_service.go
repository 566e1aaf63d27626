package service

import (
	"wamock/internal/ids"
	"wamock/internal/models"
	"wamock/pkg/cloudapi/types"
)

// EventDispatcher is the hand-off point for webhook events. Implemented by
// webhook.Dispatcher; Dispatch must return without waiting on delivery.
type EventDispatcher interface {
	Dispatch(event models.WebhookEvent)
}

// MessageService turns accepted outbound send requests into synthetic
// responses and triggers the matching status webhook. Request bodies are
// already past HTTP-front validation; no content-shape checks happen here.
type MessageService struct {
	dispatcher EventDispatcher
	gen        *ids.Generator
	events     EventLogger
}

func NewMessageService(dispatcher EventDispatcher, gen *ids.Generator, events EventLogger) *MessageService {
	if events == nil {
		events = NoopEventLogger{}
	}
	return &MessageService{
		dispatcher: dispatcher,
		gen:        gen,
		events:     events,
	}
}

// SendMessage generates a message id, echoes the recipient as both input
// and wa_id, and fires the status webhook. The response never waits on
// webhook delivery.
func (s *MessageService) SendMessage(req *types.SendMessageRequest) *types.SendMessageResponse {
	messageID := s.gen.Next()

	s.dispatcher.Dispatch(models.StatusEvent{
		MessageID:   messageID,
		RecipientID: req.To,
	})

	return &types.SendMessageResponse{
		MessagingProduct: types.MessagingProduct,
		Contacts:         []types.ContactResult{{Input: req.To, WaID: req.To}},
		Messages:         []types.MessageResult{{ID: messageID}},
	}
}

// SimulateIncomingText injects an inbound text event. Returns the id the
// caller can correlate with; success means hand-off to the dispatcher, not
// delivery.
func (s *MessageService) SimulateIncomingText(req models.SimulateIncomingRequest) string {
	messageID := s.gen.Next()
	s.dispatcher.Dispatch(models.TextEvent{
		MessageID: messageID,
		From:      req.From,
		Name:      req.Name,
		Body:      req.Body,
	})
	return messageID
}

// SimulateInteractiveReply injects an inbound button or list reply event.
func (s *MessageService) SimulateInteractiveReply(req models.SendInteractiveRequest) string {
	messageID := s.gen.Next()
	switch req.Type {
	case types.InteractiveTypeListReply:
		s.dispatcher.Dispatch(models.ListReplyEvent{
			MessageID:   messageID,
			From:        req.From,
			ItemID:      req.ID,
			Title:       req.Title,
			Description: req.Description,
		})
	default:
		s.dispatcher.Dispatch(models.ButtonReplyEvent{
			MessageID: messageID,
			From:      req.From,
			ButtonID:  req.ID,
			Title:     req.Title,
		})
	}
	return messageID
}
