package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cleberrangel/progresso-api/internal/logger"
	"github.com/cleberrangel/progresso-api/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub mantém os clientes conectados e distribui eventos de relatório.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *zerolog.Logger
}

// Message é a moldura genérica enviada aos clientes.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ReportEvent resume um relatório recém-gerado.
type ReportEvent struct {
	ReportID     string    `json:"report_id"`
	Team         string    `json:"team"`
	Baseline     string    `json:"baseline"`
	TaskCount    int       `json:"task_count"`
	WarningCount int       `json:"warning_count"`
	GeneratedAt  time.Time `json:"generated_at"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: validar Origin quando o dashboard tiver domínio fixo
		return true
	},
}

// NewHub cria o hub de notificações.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.Global(),
	}
}

// Run processa registros e broadcasts. Deve rodar em uma goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mutex.Unlock()

	h.logger.Info().
		Str("remote", client.remote).
		Int("connections", total).
		Msg("Cliente WebSocket conectado")

	client.SendMessage(Message{
		Type:      "connection",
		Data:      map[string]string{"status": "connected"},
		Timestamp: time.Now(),
	})
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Info().
			Str("remote", client.remote).
			Int("connections", len(h.clients)).
			Msg("Cliente WebSocket desconectado")
	}
}

func (h *Hub) broadcastMessage(message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Slow client: drop the connection instead of blocking the hub.
			h.logger.Warn().
				Str("remote", client.remote).
				Msg("Cliente lento, encerrando conexão")
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// Broadcast envia a mensagem a todos os clientes conectados.
func (h *Hub) Broadcast(msg Message) {
	msg.Timestamp = time.Now()
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("Falha ao serializar mensagem WebSocket")
		return
	}
	h.broadcast <- data
}

// ReportCompleted publica o evento de relatório pronto. Satisfaz o
// notificador do serviço de relatórios.
func (h *Hub) ReportCompleted(report *model.Report) {
	h.Broadcast(Message{
		Type: "report_completed",
		Data: ReportEvent{
			ReportID:     report.ID,
			Team:         report.Team,
			Baseline:     report.Baseline,
			TaskCount:    report.TaskCount,
			WarningCount: len(report.Warnings),
			GeneratedAt:  report.GeneratedAt,
		},
	})
}

// ConnectionCount informa quantos clientes estão conectados.
func (h *Hub) ConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Serve faz o upgrade da conexão HTTP e inicia as goroutines do cliente.
func (h *Hub) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Falha no upgrade WebSocket")
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 16),
		remote: c.ClientIP(),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
