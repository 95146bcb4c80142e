package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/jwebster45206/campaign-engine/pkg/actor"
	"github.com/jwebster45206/campaign-engine/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRedis(t *testing.T) *RedisStorage {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStorage(mr.Addr(), t.TempDir(), testLogger())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testSession() *state.GameState {
	pc := &actor.CharacterSpec{ID: "valeria", Name: "Valeria", HP: 20, MaxHP: 20}
	return state.NewGameState("sandpoint", pc, "ch1", "town_square", 42)
}

func TestRedisStorage_SaveAndLoadGameState(t *testing.T) {
	s := testRedis(t)
	ctx := context.Background()

	gs := testSession()
	gs.Flags["has_quest"] = true

	if err := s.SaveGameState(ctx, gs.ID, gs); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	loaded, err := s.LoadGameState(ctx, gs.ID)
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected non-nil session")
	}
	if loaded.ID != gs.ID {
		t.Errorf("Expected ID %v, got %v", gs.ID, loaded.ID)
	}
	if loaded.Location.NodeID != "town_square" {
		t.Errorf("Expected node town_square, got %v", loaded.Location.NodeID)
	}
	if !loaded.Flags.Has("has_quest") {
		t.Error("Expected has_quest flag to survive")
	}
	if loaded.Character == nil || loaded.Character.Name != "Valeria" {
		t.Error("Expected character to survive")
	}
}

func TestRedisStorage_LoadMissingGameState(t *testing.T) {
	s := testRedis(t)

	loaded, err := s.LoadGameState(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Missing session should not be an error: %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil for a missing session")
	}
}

func TestRedisStorage_DeleteGameState(t *testing.T) {
	s := testRedis(t)
	ctx := context.Background()

	gs := testSession()
	if err := s.SaveGameState(ctx, gs.ID, gs); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteGameState(ctx, gs.ID); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}

	loaded, err := s.LoadGameState(ctx, gs.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != nil {
		t.Error("Expected session to be gone after delete")
	}
}

func TestRedisStorage_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStorage(mr.Addr(), t.TempDir(), testLogger())

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	mr.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Expected ping to fail after redis shutdown")
	}
}
