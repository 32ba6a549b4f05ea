package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

func TestSessionRegistrySetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	registry := NewSessionRegistry(client, time.Minute, app.SessionConfig{})

	_ = registry.Create("game-1", "First", sampleQuestions())
	if !mr.Exists("trivia:session:game-1") {
		t.Fatalf("expected redis key to be set")
	}

	registry.Remove("game-1")
	if mr.Exists("trivia:session:game-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := registry.Get("game-1"); ok {
		t.Fatalf("expected session removed locally")
	}
}

func TestRemoveIfEmptyKeepsOccupiedSessions(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	registry := NewSessionRegistry(client, time.Minute, app.SessionConfig{})

	session := registry.Create("game-1", "First", sampleQuestions())
	if _, ok := session.Join("Alice", nopConn{}); !ok {
		t.Fatalf("join: session rejected")
	}

	if registry.RemoveIfEmpty("game-1") {
		t.Fatalf("occupied session must not be removed")
	}
	if !mr.Exists("trivia:session:game-1") {
		t.Fatalf("expected liveness key kept for occupied session")
	}
}

type nopConn struct{}

func (nopConn) Send(any) error { return nil }
func (nopConn) IsOpen() bool   { return true }

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Text: "What is 2 + 2?", Options: []string{"3", "4"}, Correct: "4"},
	}
}
