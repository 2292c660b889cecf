package setup

import "context"

// ChatClient é a capability do transporte de chat usada na verificação do
// login. A sessão real (conexão viva, afinidade de processo) mora fora deste
// serviço; aqui ela entra injetada por chamada.
type ChatClient interface {
	Connect(ctx context.Context) error
	SendCode(ctx context.Context, phone string) (codeHash string, err error)
	SignIn(ctx context.Context, phone, codeHash, code string) error
	Disconnect(ctx context.Context) error
}
