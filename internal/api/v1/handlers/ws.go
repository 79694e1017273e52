package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"tasklist-api/internal/middleware"
	"tasklist-api/internal/service"
	myws "tasklist-api/internal/websocket"
	"tasklist-api/pkg/logger"
)

// TaskEventMessage is what websocket clients receive.
type TaskEventMessage struct {
	Type string       `json:"type"`
	Task TaskResponse `json:"task"`
}

// TaskEventPublisher sends task events to the owner's websocket connections.
type TaskEventPublisher struct {
	hub *myws.Hub
	log *logger.Loggers
}

func NewTaskEventPublisher(hub *myws.Hub, log *logger.Loggers) *TaskEventPublisher {
	return &TaskEventPublisher{hub: hub, log: log}
}

func (p *TaskEventPublisher) Publish(userID int, event service.TaskEvent) {
	data, err := json.Marshal(TaskEventMessage{Type: event.Type, Task: toTaskResponse(event.Task)})
	if err != nil {
		p.log.Error.Error("Failed to encode task event", zap.Error(err))
		return
	}
	if !p.hub.Publish(userID, data) {
		p.log.System.Warn("Task event dropped", zap.Int("user_id", userID), zap.String("type", event.Type))
	}
}

// RequireUpgrade rejects plain HTTP requests on websocket routes.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.Status(fiber.StatusUpgradeRequired).JSON(ErrorResponse{Error: "websocket upgrade required"})
}

// TaskFeed streams the caller's task events. Incoming messages are read only
// to notice when the client goes away.
func TaskFeed(hub *myws.Hub, log *logger.Loggers) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(middleware.UserIDLocal).(int)
		if !ok {
			return
		}

		client := myws.NewClient(userID, conn)
		if !hub.Register(client) {
			return
		}
		// conn goes back to the websocket pool when this returns; Unregister
		// blocks until the pump has stopped writing to it.
		defer hub.Unregister(client)
		log.System.Info("Websocket connected", zap.Int("user_id", userID))

		go client.WritePump()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.System.Info("Websocket disconnected", zap.Int("user_id", userID))
				return
			}
		}
	})
}
