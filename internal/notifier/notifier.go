package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/pkg/contracts/events"
)

// Notifier materializa no chat o que os outros serviços só registram: consome
// member_kicked e executa a remoção real no grupo; consome bet_posted e envia
// a mensagem formatada. É a última perna do fluxo, depois do estado já gravado.
type Notifier struct {
	Log     *zap.Logger
	Gateway Gateway
}

// HandleMemberKicked decodifica o evento e remove o membro do grupo de chat.
func (n *Notifier) HandleMemberKicked(ctx context.Context, value []byte) error {
	var ev events.MemberKicked
	if err := json.Unmarshal(value, &ev); err != nil {
		return fmt.Errorf("decode member_kicked: %w", err)
	}
	if ev.GroupID == "" || ev.TelegramID == 0 {
		return fmt.Errorf("member_kicked sem group_id/telegram_id")
	}

	if err := n.Gateway.RemoveFromGroup(ctx, ev.GroupID, strconv.FormatInt(ev.TelegramID, 10)); err != nil {
		return fmt.Errorf("remove membro %s: %w", ev.MemberID, err)
	}
	n.Log.Info("membro removido do chat",
		zap.String("member_id", ev.MemberID),
		zap.String("group_id", ev.GroupID),
		zap.String("reason", ev.Reason),
	)
	return nil
}

// HandleBetPosted decodifica o evento e publica a mensagem da aposta no grupo.
func (n *Notifier) HandleBetPosted(ctx context.Context, value []byte) error {
	var ev events.BetPosted
	if err := json.Unmarshal(value, &ev); err != nil {
		return fmt.Errorf("decode bet_posted: %w", err)
	}
	if ev.GroupID == "" || ev.BetID == "" {
		return fmt.Errorf("bet_posted sem group_id/bet_id")
	}

	if err := n.Gateway.SendGroupMessage(ctx, ev.GroupID, FormatBetMessage(ev)); err != nil {
		return fmt.Errorf("enviar aposta %s: %w", ev.BetID, err)
	}
	n.Log.Info("aposta enviada ao grupo",
		zap.String("bet_id", ev.BetID),
		zap.String("group_id", ev.GroupID),
	)
	return nil
}

// FormatBetMessage monta o texto enviado ao grupo.
func FormatBetMessage(ev events.BetPosted) string {
	msg := "⚽ " + ev.Fixture
	if ev.Odds != nil {
		msg += fmt.Sprintf("\nOdd: %.2f", *ev.Odds)
	}
	msg += "\n" + ev.DeepLink
	return msg
}
