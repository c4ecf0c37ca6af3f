package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"cppquiz-service/internal/domain"
	"cppquiz-service/internal/quiz"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *quiz.Service
	upgrader websocket.Upgrader
}

func NewWSHandler(service *quiz.Service) *WSHandler {
	return &WSHandler{
		service: service,
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
	Option int `json:"option"`
}

type bonusPayload struct {
	Accept bool `json:"accept"`
}

type attentionPayload struct {
	State string `json:"state"`
}

// questionView is the question as shown to the student: the correct index and
// explanation stay server-side until the quiz is over.
type questionView struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	Options    []string          `json:"options"`
	Difficulty domain.Difficulty `json:"difficulty"`
	TimeLimit  int               `json:"timeLimit"`
	Bonus      bool              `json:"bonus"`
}

type outboundMessage struct {
	Type      string           `json:"type"`
	Phase     domain.Phase     `json:"phase,omitempty"`
	Name      string           `json:"name,omitempty"`
	Total     int              `json:"totalQuestions,omitempty"`
	Question  *questionView    `json:"question,omitempty"`
	Answer    *domain.Answer   `json:"answer,omitempty"`
	Penalties int              `json:"penalties,omitempty"`
	Remaining int              `json:"remaining,omitempty"`
	Result    *domain.Result   `json:"result,omitempty"`
	Message   string           `json:"message,omitempty"`
}

func viewOf(q *domain.Question) *questionView {
	if q == nil {
		return nil
	}
	return &questionView{
		ID:         q.ID,
		Text:       q.Text,
		Options:    q.Options,
		Difficulty: q.Difficulty,
		TimeLimit:  q.TimeLimit,
		Bonus:      q.Bonus,
	}
}

func outboundOf(ev quiz.Event) outboundMessage {
	return outboundMessage{
		Type:      string(ev.Type),
		Phase:     ev.Phase,
		Question:  viewOf(ev.Question),
		Answer:    ev.Answer,
		Penalties: ev.Penalties,
		Remaining: ev.Remaining,
		Result:    ev.Result,
	}
}

// ServeWS upgrades the request to a websocket and runs one quiz attempt over
// it. Connecting is the login: a fresh session is assembled for the student,
// replacing any unfinished attempt from another device.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	regNumber := r.URL.Query().Get("regNumber")
	if regNumber == "" {
		http.Error(w, "missing regNumber", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.service.StartSession(r.Context(), regNumber)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Message: err.Error()})
		return
	}

	events, cancel := session.Subscribe()
	defer cancel()

	monitor := quiz.NewMonitor(func() {
		_ = session.RecordPenalty()
	})

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundOf(ev):
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	welcome := outboundMessage{
		Type:  "welcome",
		Phase: session.Phase(),
		Name:  session.StudentName(),
		Total: session.QuestionCount(),
	}
	if q, ok := session.CurrentQuestion(); ok {
		welcome.Question = viewOf(&q)
		welcome.Remaining = q.TimeLimit
	}
	send <- welcome

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage{Type: "error", Message: "invalid answer payload"}
				continue
			}
			if err := session.SubmitAnswer(payload.Option); err != nil {
				send <- outboundMessage{Type: "error", Message: submitError(err)}
			}
		case "bonus":
			var payload bonusPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage{Type: "error", Message: "invalid bonus payload"}
				continue
			}
			if err := session.ChooseBonus(payload.Accept); err != nil {
				send <- outboundMessage{Type: "error", Message: submitError(err)}
			}
		case "attention":
			var payload attentionPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage{Type: "error", Message: "invalid attention payload"}
				continue
			}
			switch payload.State {
			case "hidden":
				monitor.Hidden()
			case "visible":
				monitor.Visible()
			case "blurred":
				monitor.Blurred()
			case "focused":
				monitor.Focused()
			default:
				send <- outboundMessage{Type: "error", Message: "unknown attention state"}
			}
		default:
			send <- outboundMessage{Type: "error", Message: "unsupported message type"}
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func submitError(err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionFinished):
		return "quiz already finished"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "action not allowed in this phase"
	default:
		return err.Error()
	}
}
