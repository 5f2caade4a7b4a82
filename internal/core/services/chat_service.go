package services

import (
	"context"
	"log"
	"sync"
	"time"

	"dwellhub/internal/adapters/persistence/repositories"
)

// ChatMessage is a single relayed message within a building room
type ChatMessage struct {
	PropertyID uint      `json:"property_id"`
	UserID     uint      `json:"user_id"`
	FullName   string    `json:"full_name"`
	Body       string    `json:"body"`
	SentAt     time.Time `json:"sent_at"`
}

// chatClient is one connected subscriber in a room
type chatClient struct {
	userID uint
	send   chan ChatMessage
}

// ChatService relays messages between users of the same building. Rooms
// are in-memory only; messages are not persisted, a client sees what is
// said while connected.
type ChatService struct {
	assignmentRepo *repositories.BuildingAssignmentRepository

	mu    sync.RWMutex
	rooms map[uint]map[*chatClient]struct{}
}

// NewChatService creates a new chat service
func NewChatService(assignmentRepo *repositories.BuildingAssignmentRepository) *ChatService {
	return &ChatService{
		assignmentRepo: assignmentRepo,
		rooms:          make(map[uint]map[*chatClient]struct{}),
	}
}

// CanJoin reports whether the user may enter a building's room
func (s *ChatService) CanJoin(ctx context.Context, userID, propertyID uint) (bool, error) {
	return s.assignmentRepo.HasActive(ctx, userID, propertyID)
}

// Join subscribes the user to a room and returns the receive channel and
// a leave function. Slow consumers drop messages instead of blocking the
// room.
func (s *ChatService) Join(propertyID, userID uint) (<-chan ChatMessage, func()) {
	client := &chatClient{
		userID: userID,
		send:   make(chan ChatMessage, 32),
	}

	s.mu.Lock()
	room, ok := s.rooms[propertyID]
	if !ok {
		room = make(map[*chatClient]struct{})
		s.rooms[propertyID] = room
	}
	room[client] = struct{}{}
	s.mu.Unlock()

	log.Printf("✅ User %d joined chat room %d", userID, propertyID)

	leave := func() {
		s.mu.Lock()
		if room, ok := s.rooms[propertyID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(s.rooms, propertyID)
			}
		}
		s.mu.Unlock()
		close(client.send)
		log.Printf("✅ User %d left chat room %d", userID, propertyID)
	}

	return client.send, leave
}

// Broadcast relays a message to everyone in the room, sender included
func (s *ChatService) Broadcast(msg ChatMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for client := range s.rooms[msg.PropertyID] {
		select {
		case client.send <- msg:
		default:
			// full buffer: drop for this client
		}
	}
}

// RoomSize reports the number of connected clients in a room
func (s *ChatService) RoomSize(propertyID uint) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms[propertyID])
}
