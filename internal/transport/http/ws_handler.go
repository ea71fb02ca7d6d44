package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"sorting-hat-service/internal/app"
	"sorting-hat-service/internal/domain"
)

// ResultRoute is where clients navigate once a house is assigned.
const ResultRoute = "/house-reveal"

// CredentialWriter stores the bearer token a connection arrives with, scoped
// to that connection, and drops it when the connection ends.
type CredentialWriter interface {
	Put(ctx context.Context, sessionID, key, token string) error
	Delete(ctx context.Context, sessionID, key string) error
}

type WSHandler struct {
	service     *app.SortingService
	credentials CredentialWriter
	tokenKey    string
	upgrader    websocket.Upgrader
}

func NewWSHandler(service *app.SortingService, credentials CredentialWriter, tokenKey string) *WSHandler {
	return &WSHandler{
		service:     service,
		credentials: credentials,
		tokenKey:    tokenKey,
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

type answerPayload struct {
	QuestionID int `json:"questionId"`
	Option     int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type joinedPayload struct {
	UserID   string                `json:"userId"`
	Previous *domain.SortingResult `json:"previous,omitempty"`
}

type questionPayload struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Index   int      `json:"index"`
	Total   int      `json:"total"`
}

type progressPayload struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Complete bool   `json:"complete"`
	Resolved string `json:"resolved,omitempty"`
}

type assignedPayload struct {
	House   domain.House   `json:"house"`
	Random  bool           `json:"random"`
	Profile domain.Profile `json:"profile"`
}

type navigatePayload struct {
	Route string `json:"route"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// connSink queues outbound messages and doubles as the controller's
// notifier, navigator and progress listener.
type connSink struct {
	send chan outboundMessage[any]
	done <-chan struct{}
}

func (s *connSink) push(typ string, payload any) {
	select {
	case s.send <- outboundMessage[any]{Type: typ, Payload: payload}:
	case <-s.done:
	}
}

func (s *connSink) HouseAssigned(_ context.Context, result domain.SortingResult, profile domain.Profile) {
	s.push("houseAssigned", assignedPayload{House: result.House, Random: result.Random, Profile: profile})
}

func (s *connSink) AssignmentStarted(_ context.Context, p app.Progress) {
	pushProgress(s, p)
}

func (s *connSink) ShowResult(context.Context) {
	s.push("navigate", navigatePayload{Route: ResultRoute})
}

// ServeWS upgrades HTTP requests to websockets and runs one sorting quiz per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	displayName := r.URL.Query().Get("name")
	if userID == "" || displayName == "" {
		http.Error(w, "missing userId or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	if token := bearerToken(r); token != "" && h.credentials != nil {
		if err := h.credentials.Put(r.Context(), connID, h.tokenKey, token); err != nil {
			log.Printf("ws %s store credential for %s: %v", connID, userID, err)
		}
		defer func() {
			if err := h.credentials.Delete(context.Background(), connID, h.tokenKey); err != nil {
				log.Printf("ws %s drop credential: %v", connID, err)
			}
		}()
	}
	writerDone := make(chan struct{})
	sink := &connSink{send: make(chan outboundMessage[any], 16), done: writerDone}

	go func() {
		defer close(writerDone)
		for msg := range sink.send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws %s write error: %v", connID, err)
				return
			}
		}
	}()
	defer func() {
		close(sink.send)
		<-writerDone
	}()

	ctx := r.Context()
	user := domain.User{ID: userID, Username: displayName, SessionID: connID}
	controller, err := h.service.StartQuiz(ctx, user, sink, sink)
	if err != nil {
		log.Printf("ws %s start quiz for %s: %v", connID, userID, err)
		sink.push("error", errorPayload{Message: err.Error()})
		return
	}
	controller.OnAssignmentStarted(sink)

	joined := joinedPayload{UserID: userID}
	if previous, err := h.service.LastResult(ctx, userID); err == nil {
		joined.Previous = &previous
	} else if !errors.Is(err, domain.ErrResultNotFound) {
		log.Printf("ws %s last result for %s: %v", connID, userID, err)
	}
	sink.push("joined", joined)
	pushQuestion(sink, controller)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sink.push("error", errorPayload{Message: "invalid answer payload"})
				continue
			}
			err = controller.Answer(ctx, payload.QuestionID, payload.Option)
		case "random":
			_, err = controller.AssignRandom(ctx)
		case "retry":
			err = controller.Retry(ctx)
		default:
			sink.push("error", errorPayload{Message: "unsupported message type"})
			continue
		}
		if err != nil {
			sink.push("error", errorPayload{Message: err.Error()})
		}
		pushProgress(sink, controller.Progress())
		if inbound.Type == "answer" && err == nil {
			pushQuestion(sink, controller)
		}
	}
}

func pushQuestion(sink *connSink, controller *app.QuizController) {
	q, ok := controller.CurrentQuestion()
	if !ok {
		return
	}
	p := controller.Progress()
	options := make([]string, len(q.Options))
	for i, opt := range q.Options {
		options[i] = opt.Text
	}
	sink.push("question", questionPayload{ID: q.ID, Prompt: q.Prompt, Options: options, Index: p.Index, Total: p.Total})
}

func pushProgress(sink *connSink, p app.Progress) {
	payload := progressPayload{
		Status:   p.Status.String(),
		Index:    p.Index,
		Total:    p.Total,
		Complete: p.Complete,
		Resolved: string(p.Resolved),
	}
	if p.Err != nil {
		payload.Error = p.Err.Error()
	}
	sink.push("progress", payload)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return r.URL.Query().Get("token")
}
