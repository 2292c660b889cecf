package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway é o que o notifier precisa do chat-gateway: mandar mensagem no grupo
// e remover membro. A sessão real do transporte vive no gateway, nunca aqui.
type Gateway interface {
	SendGroupMessage(ctx context.Context, groupID, text string) error
	RemoveFromGroup(ctx context.Context, groupID, telegramID string) error
}

// GatewayClient implementa Gateway por HTTP contra o chat-gateway.
type GatewayClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewGatewayClient(base string) *GatewayClient {
	return &GatewayClient{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *GatewayClient) SendGroupMessage(ctx context.Context, groupID, text string) error {
	return c.post(ctx, "/group/send-message", map[string]string{
		"group_id": groupID,
		"text":     text,
	})
}

func (c *GatewayClient) RemoveFromGroup(ctx context.Context, groupID, telegramID string) error {
	return c.post(ctx, "/group/remove-member", map[string]string{
		"group_id":    groupID,
		"telegram_id": telegramID,
	})
}

func (c *GatewayClient) post(ctx context.Context, path string, in any) error {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("chat-gateway %s http %d", path, res.StatusCode)
	}
	return nil
}
