package notifier

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/pkg/contracts/events"
)

type fakeGW struct {
	sent    [][2]string // group_id, text
	removed [][2]string // group_id, telegram_id
	err     error
}

func (f *fakeGW) SendGroupMessage(_ context.Context, groupID, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, [2]string{groupID, text})
	return nil
}

func (f *fakeGW) RemoveFromGroup(_ context.Context, groupID, telegramID string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, [2]string{groupID, telegramID})
	return nil
}

func TestHandleMemberKickedRemoveDoChat(t *testing.T) {
	gw := &fakeGW{}
	n := &Notifier{Log: zap.NewNop(), Gateway: gw}

	payload, _ := json.Marshal(events.MemberKicked{
		MemberID:   "m1",
		TelegramID: 123456,
		GroupID:    "g1",
		Reason:     "TRIAL_EXPIRED",
		KickedAt:   time.Now(),
	})
	if err := n.HandleMemberKicked(context.Background(), payload); err != nil {
		t.Fatalf("HandleMemberKicked: %v", err)
	}
	if len(gw.removed) != 1 || gw.removed[0] != [2]string{"g1", "123456"} {
		t.Fatalf("removed = %v", gw.removed)
	}
}

func TestHandleMemberKickedValida(t *testing.T) {
	n := &Notifier{Log: zap.NewNop(), Gateway: &fakeGW{}}

	for _, bad := range []string{`nao é json`, `{"member_id":"m1"}`} {
		if err := n.HandleMemberKicked(context.Background(), []byte(bad)); err == nil {
			t.Fatalf("payload %q deveria falhar", bad)
		}
	}
}

func TestHandleBetPostedEnviaMensagem(t *testing.T) {
	gw := &fakeGW{}
	n := &Notifier{Log: zap.NewNop(), Gateway: gw}

	odds := 1.85
	payload, _ := json.Marshal(events.BetPosted{
		BetID:    "b1",
		GroupID:  "g1",
		Fixture:  "Flamengo x Palmeiras",
		Odds:     &odds,
		DeepLink: "https://aff.example/x",
	})
	if err := n.HandleBetPosted(context.Background(), payload); err != nil {
		t.Fatalf("HandleBetPosted: %v", err)
	}
	if len(gw.sent) != 1 || gw.sent[0][0] != "g1" {
		t.Fatalf("sent = %v", gw.sent)
	}
	text := gw.sent[0][1]
	for _, want := range []string{"Flamengo x Palmeiras", "1.85", "https://aff.example/x"} {
		if !strings.Contains(text, want) {
			t.Fatalf("mensagem %q sem %q", text, want)
		}
	}
}

func TestFormatBetMessageSemOdd(t *testing.T) {
	text := FormatBetMessage(events.BetPosted{
		Fixture:  "Santos x Grêmio",
		DeepLink: "https://aff.example/y",
	})
	if strings.Contains(text, "Odd:") {
		t.Fatalf("mensagem %q não deveria ter linha de odd", text)
	}
}
