package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/domain"
	"github.com/symptom-triage-server/internal/llm"
)

// conversationHistoryLimit caps how many stored turns are replayed to the
// model on each exchange.
const conversationHistoryLimit = 50

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API already serves a permissive CORS policy; the websocket
	// endpoint follows it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is one frame exchanged over the conversation socket.
type wsMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// handleConversation upgrades to a websocket and relays follow-up questions
// about a stored check to the language model.
func (s *Server) handleConversation(c *gin.Context) {
	if s.deps.LLM == nil || s.deps.Conversations == nil {
		c.JSON(http.StatusServiceUnavailable, domain.NewAPIError(
			domain.ErrCodeUnavailable,
			"Follow-up conversation is not available",
			"Conversation requires the openai strategy and a postgres database",
			c.GetString("correlation_id"),
		))
		return
	}

	check, ok := s.loadCheck(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	// Reuse the check's conversation when one exists
	conversation, err := s.deps.Conversations.GetByCheckID(ctx, check.CheckID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.serverError(c, "Failed to load conversation", err)
			return
		}
		conversation = &domain.Conversation{
			ID:      uuid.New(),
			CheckID: check.CheckID,
		}
		if err := s.deps.Conversations.Create(ctx, conversation); err != nil {
			s.serverError(c, "Failed to create conversation", err)
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := s.log.WithFields(logrus.Fields{
		"check_id":        check.CheckID,
		"conversation_id": conversation.ID,
	})
	log.Info("Conversation started")

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("Conversation closed unexpectedly")
			}
			return
		}
		if messageType != websocket.TextMessage || len(payload) == 0 {
			continue
		}

		question := string(payload)

		userMessage := &domain.ConversationMessage{
			ConversationID: conversation.ID,
			Role:           domain.RoleUser,
			Content:        question,
		}
		if err := s.deps.Conversations.AppendMessage(ctx, userMessage); err != nil {
			log.WithError(err).Warn("Failed to persist user message")
		}

		stored, err := s.deps.Conversations.GetMessages(ctx, conversation.ID, conversationHistoryLimit)
		if err != nil {
			log.WithError(err).Warn("Failed to load conversation history")
		}

		turns := make([]llm.Message, 0, len(stored)+1)
		for _, m := range stored {
			turns = append(turns, llm.Message{Role: m.Role, Content: m.Content})
		}
		if len(turns) == 0 {
			turns = append(turns, llm.Message{Role: domain.RoleUser, Content: question})
		}

		answer, err := s.deps.LLM.Converse(ctx, check.Symptoms, turns)
		if err != nil {
			log.WithError(err).Error("Conversation completion failed")
			answer = "I'm sorry, I couldn't process that question right now. Please try again, and consult a healthcare provider for urgent concerns."
		} else {
			assistantMessage := &domain.ConversationMessage{
				ConversationID: conversation.ID,
				Role:           domain.RoleAssistant,
				Content:        answer,
			}
			if err := s.deps.Conversations.AppendMessage(ctx, assistantMessage); err != nil {
				log.WithError(err).Warn("Failed to persist assistant message")
			}
		}

		reply := wsMessage{
			Role:      domain.RoleAssistant,
			Content:   answer,
			Timestamp: time.Now().UTC(),
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.WithError(err).Warn("Failed to write conversation reply")
			return
		}
	}
}
