package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"college-exam-system/internal/app"
	"college-exam-system/internal/domain"
	"college-exam-system/internal/infra/memory"
	"college-exam-system/internal/store"
	"github.com/gorilla/websocket"
)

func TestWebSocketExamFlow(t *testing.T) {
	st := sampleStore(t)
	server := httptest.NewServer(NewRouter(newService(st), st))
	defer server.Close()

	conn := dial(t, server, "studentId=S1&subjectId=GEO")
	defer conn.Close()

	typ, payload := readNext(conn, t, "question")
	if payload["question"] != "Capital of France?" {
		t.Fatalf("unexpected first question %v", payload)
	}

	send(t, conn, "submit", "too early")
	typ, payload = readNext(conn, t, "error")
	if !strings.Contains(payload["message"].(string), "invalid session transition") {
		t.Fatalf("expected transition error, got %v", payload)
	}

	send(t, conn, "answer", "paris")
	readNext(conn, t, "question")
	send(t, conn, "answer", "4")
	typ, payload = readNext(conn, t, "question")
	if payload["last"] != true {
		t.Fatalf("expected last question flag, got %s %v", typ, payload)
	}

	send(t, conn, "submit", "red")
	_, payload = readNext(conn, t, "result")
	if payload["score"] != float64(2) || payload["total"] != float64(3) {
		t.Fatalf("unexpected result %v", payload)
	}

	rec, err := st.Score("S1", "GEO")
	if err != nil || rec.Score != 2 {
		t.Fatalf("expected recorded score, got %+v %v", rec, err)
	}
}

func TestWebSocketUnknownStudent(t *testing.T) {
	st := sampleStore(t)
	server := httptest.NewServer(NewRouter(newService(st), st))
	defer server.Close()

	conn := dial(t, server, "studentId=S9&subjectId=GEO")
	defer conn.Close()

	_, payload := readNext(conn, t, "error")
	if !strings.Contains(payload["message"].(string), "not found") {
		t.Fatalf("expected not found message, got %v", payload)
	}
}

func TestScoresEndpoint(t *testing.T) {
	st := sampleStore(t)
	_ = st.RecordScore(domain.ScoreRecord{StudentID: "S1", SubjectID: "GEO", Score: 3})
	server := httptest.NewServer(NewRouter(newService(st), st))
	defer server.Close()

	resp, err := http.Get(server.URL + "/students/S1/scores")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var records []domain.ScoreRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 || records[0].Score != 3 {
		t.Fatalf("unexpected records %+v", records)
	}

	resp, err = http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get ws without params: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ, answer string) {
	t.Helper()
	msg := map[string]any{
		"type":    typ,
		"payload": map[string]any{"answer": answer},
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func newService(st *store.Store) *app.ExamService {
	exams := memory.NewExamRepository(memory.NewStoreExamLoader(st), 0)
	return app.NewExamService(memory.NewSessionStore(), exams, st)
}

func sampleStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	if err := st.AddAccount(domain.Account{ID: "S1", Name: "Alice", Username: "alice", Password: "pw", Role: domain.RoleStudent}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := st.AddExam(domain.Exam{
		SubjectID:  "GEO",
		LecturerID: "L1",
		Duration:   30,
		Questions:  []string{"Capital of France?", "2+2?", "Sky colour?"},
		Answers:    []string{"Paris", "4", "Blue"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return st
}
