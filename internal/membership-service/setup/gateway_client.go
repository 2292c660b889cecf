package setup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GatewayClient fala com o chat-gateway, o processo que segura a sessão real
// do transporte (conexão viva, afinidade de processo). Implementa ChatClient
// por HTTP: este serviço nunca mantém a sessão localmente.
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

func (c *GatewayClient) Connect(ctx context.Context) error {
	return c.post(ctx, "/session/connect", nil, nil)
}

func (c *GatewayClient) Disconnect(ctx context.Context) error {
	return c.post(ctx, "/session/disconnect", nil, nil)
}

func (c *GatewayClient) SendCode(ctx context.Context, phone string) (string, error) {
	var out struct {
		CodeHash string `json:"code_hash"`
	}
	err := c.post(ctx, "/session/send-code", map[string]string{"phone": phone}, &out)
	if err != nil {
		return "", err
	}
	return out.CodeHash, nil
}

func (c *GatewayClient) SignIn(ctx context.Context, phone, codeHash, code string) error {
	return c.post(ctx, "/session/sign-in", map[string]string{
		"phone":     phone,
		"code_hash": codeHash,
		"code":      code,
	}, nil)
}

func (c *GatewayClient) post(ctx context.Context, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
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
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}
