package chat_test

import (
	"context"
	"testing"

	modelchat "github.com/tableside/concierge/internal/model/chat"
	chat "github.com/tableside/concierge/internal/service/chat"
)

func TestServiceTranscriptPerAccount(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	saved, err := svc.SaveMessage(ctx, modelchat.Message{AccountID: "a", RestaurantID: "42", Sender: modelchat.SenderUser, Text: "hi"})
	if err != nil {
		t.Fatalf("SaveMessage err: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", saved)
	}
	if _, err := svc.SaveMessage(ctx, modelchat.Message{AccountID: "a", RestaurantID: "77", Sender: modelchat.SenderUser, Text: "yo"}); err != nil {
		t.Fatalf("SaveMessage err: %v", err)
	}

	if got := svc.LoadTranscript(ctx, "a", ""); len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got := svc.LoadTranscript(ctx, "a", "42"); len(got) != 1 || got[0].Text != "hi" {
		t.Fatalf("unexpected filtered transcript: %+v", got)
	}
	if got := svc.LoadTranscript(ctx, "b", ""); len(got) != 0 {
		t.Fatalf("expected empty transcript for other account, got %d", len(got))
	}
}

func TestServiceRejectsIncompleteMessages(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	if _, err := svc.SaveMessage(ctx, modelchat.Message{Text: "hi"}); err != chat.ErrAccountRequired {
		t.Fatalf("expected ErrAccountRequired, got %v", err)
	}
	if _, err := svc.SaveMessage(ctx, modelchat.Message{AccountID: "a"}); err != chat.ErrEmptyMessage {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}
