package handlers

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"dwellhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatHandler handles the building chat websocket endpoint
type ChatHandler struct {
	chatService *services.ChatService
	userService *services.UserService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService, userService *services.UserService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		userService: userService,
	}
}

// inboundChatMessage is what a connected client sends over the socket
type inboundChatMessage struct {
	Body string `json:"body"`
}

// Upgrade rejects plain HTTP requests on the websocket route
func (h *ChatHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Room runs one client's connection to a building chat room. The caller
// must hold an active assignment to the property; connections without one
// are closed immediately.
func (h *ChatHandler) Room() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		userID, ok := conn.Locals("userID").(uint)
		if !ok {
			return
		}

		propertyID, err := strconv.ParseUint(conn.Params("id"), 10, 32)
		if err != nil || propertyID == 0 {
			_ = conn.WriteJSON(fiber.Map{"error": "invalid property ID"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		allowed, err := h.chatService.CanJoin(ctx, userID, uint(propertyID))
		if err != nil || !allowed {
			cancel()
			_ = conn.WriteJSON(fiber.Map{"error": "not assigned to this building"})
			return
		}

		user, err := h.userService.GetProfile(ctx, userID)
		cancel()
		if err != nil {
			log.Printf("❌ Chat profile lookup failed for user %d: %v", userID, err)
			return
		}

		messages, leave := h.chatService.Join(uint(propertyID), userID)

		// writer: relay room messages to this client until the room
		// channel closes or the write fails
		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range messages {
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			}
		}()

		for {
			var inbound inboundChatMessage
			if err := conn.ReadJSON(&inbound); err != nil {
				break
			}
			body := strings.TrimSpace(inbound.Body)
			if body == "" {
				continue
			}

			h.chatService.Broadcast(services.ChatMessage{
				PropertyID: uint(propertyID),
				UserID:     userID,
				FullName:   user.FullName,
				Body:       body,
				SentAt:     time.Now(),
			})
		}

		leave()
		<-done
	})
}
