package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cppquiz-service/internal/domain"
	"cppquiz-service/internal/infra/memory"
	"cppquiz-service/internal/quiz"
	"github.com/gorilla/websocket"
)

func wsTestQuestions() ([]domain.Question, []domain.Question) {
	regular := []domain.Question{
		{ID: "q1", Text: "size of int?", Options: []string{"always 4", "implementation-defined"}, CorrectIndex: 1, Difficulty: domain.Easy, TimeLimit: 30},
		{ID: "q2", Text: "what does new throw?", Options: []string{"bad_alloc", "nothing"}, CorrectIndex: 0, Difficulty: domain.Medium, TimeLimit: 30},
	}
	bonus := []domain.Question{
		{ID: "b1", Text: "evaluation order?", Options: []string{"left to right", "unspecified before C++17"}, CorrectIndex: 1, Difficulty: domain.Hard, TimeLimit: 45, Bonus: true},
	}
	return regular, bonus
}

func newWSTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	regular, bonus := wsTestQuestions()
	bank := memory.NewQuestionBank(memory.NewStaticQuestionLoader(regular, bonus), time.Minute)
	roster := memory.NewStudentDirectory([]domain.Student{{RegNumber: "RA001", Name: "Alice"}})
	service := quiz.NewServiceWithClock(bank, roster, memory.NewResultStore(), memory.NewSessionRegistry(),
		domain.Settings{TotalQuestions: 2}, time.Now, time.Hour)

	mux := http.NewServeMux()
	Register(mux, service)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func dialWS(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wsMessage struct {
	Type      string         `json:"type"`
	Phase     domain.Phase   `json:"phase"`
	Question  map[string]any `json:"question"`
	Answer    map[string]any `json:"answer"`
	Remaining int            `json:"remaining"`
	Result    *domain.Result `json:"result"`
	Message   string         `json:"message"`
}

// readUntil skips unrelated events (ticks, phase snapshots) until the wanted
// type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) wsMessage {
	t.Helper()
	for i := 0; i < 20; i++ {
		var msg wsMessage
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json waiting for %s: %v", want, err)
		}
		if msg.Type == want {
			return msg
		}
	}
	t.Fatalf("never received %s", want)
	return wsMessage{}
}

func sendWS(t *testing.T, conn *websocket.Conn, typ string, payload map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func TestWebSocketFullQuizFlow(t *testing.T) {
	server := newWSTestServer(t)
	conn := dialWS(t, server, "?regNumber=RA001")

	welcome := readUntil(t, conn, "welcome")
	if welcome.Question == nil {
		t.Fatalf("welcome carried no question: %+v", welcome)
	}
	if _, leaked := welcome.Question["correctIndex"]; leaked {
		t.Fatalf("correct index leaked to the client: %+v", welcome.Question)
	}

	// Two regular answers: first correct, second wrong.
	sendWS(t, conn, "answer", map[string]any{"option": 1})
	first := readUntil(t, conn, "answer")
	if first.Answer["isCorrect"] != true {
		t.Fatalf("expected first answer correct: %+v", first.Answer)
	}
	readUntil(t, conn, "question")

	sendWS(t, conn, "answer", map[string]any{"option": 1})
	readUntil(t, conn, "answer")

	// A tab switch while the offer is pending must not add a penalty.
	offer := readUntil(t, conn, "phase")
	if offer.Phase != domain.PhaseBonusOffer {
		t.Fatalf("expected bonus offer, got %s", offer.Phase)
	}
	sendWS(t, conn, "attention", map[string]any{"state": "hidden"})
	sendWS(t, conn, "attention", map[string]any{"state": "visible"})

	sendWS(t, conn, "bonus", map[string]any{"accept": true})
	bonusQ := readUntil(t, conn, "question")
	if bonusQ.Question["bonus"] != true {
		t.Fatalf("expected bonus question, got %+v", bonusQ.Question)
	}

	sendWS(t, conn, "answer", map[string]any{"option": 1})
	finished := readUntil(t, conn, "finished")
	if finished.Result == nil {
		t.Fatalf("finished event without result")
	}
	// One of two regular answers correct, bonus correct, no penalties.
	if finished.Result.TotalScore != 11 {
		t.Fatalf("total score %d, want 11", finished.Result.TotalScore)
	}
	if finished.Result.PenaltyCount != 0 {
		t.Fatalf("penalty recorded during bonus offer: %+v", finished.Result)
	}
}

func TestWebSocketPenaltyDuringQuestion(t *testing.T) {
	server := newWSTestServer(t)
	conn := dialWS(t, server, "?regNumber=RA001")
	readUntil(t, conn, "welcome")

	// Hidden and blurred in one episode count once; a fresh episode counts again.
	sendWS(t, conn, "attention", map[string]any{"state": "hidden"})
	sendWS(t, conn, "attention", map[string]any{"state": "blurred"})
	first := readUntil(t, conn, "penalty")
	if first.Phase != domain.PhaseInProgress {
		t.Fatalf("penalty outside active phase: %+v", first)
	}

	sendWS(t, conn, "attention", map[string]any{"state": "focused"})
	sendWS(t, conn, "attention", map[string]any{"state": "blurred"})
	readUntil(t, conn, "penalty")

	sendWS(t, conn, "answer", map[string]any{"option": 1})
	sendWS(t, conn, "answer", map[string]any{"option": 0})
	sendWS(t, conn, "bonus", map[string]any{"accept": false})

	finished := readUntil(t, conn, "finished")
	if finished.Result.PenaltyCount != 2 {
		t.Fatalf("penalty count %d, want 2", finished.Result.PenaltyCount)
	}
	// 2 correct - 2*2 penalty = 0 after clamping at the floor.
	if finished.Result.TotalScore != 0 {
		t.Fatalf("total score %d, want 0", finished.Result.TotalScore)
	}
}

func TestWebSocketRejectsMissingRegNumber(t *testing.T) {
	server := newWSTestServer(t)

	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestWebSocketUnknownStudent(t *testing.T) {
	server := newWSTestServer(t)
	conn := dialWS(t, server, "?regNumber=RA999")

	msg := readUntil(t, conn, "error")
	if msg.Message == "" {
		t.Fatalf("expected error message for unknown student")
	}
}
