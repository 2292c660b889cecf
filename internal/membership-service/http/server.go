package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/membership-service/dto"
	"github.com/radieske/bet-community-platform/internal/membership-service/processor"
	"github.com/radieske/bet-community-platform/internal/membership-service/setup"
	"github.com/radieske/bet-community-platform/internal/shared/apperr"
)

// Server expõe os webhooks de pagamento e de chat mais o handshake de setup.
type Server struct {
	log  *zap.Logger
	proc *processor.Processor
	flow *setup.Flow
}

func NewServer(log *zap.Logger, proc *processor.Processor, flow *setup.Flow) *Server {
	return &Server{log: log, proc: proc, flow: flow}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhooks/payment", s.paymentWebhook) // POST
	mux.HandleFunc("/webhooks/chat", s.chatWebhook)       // POST (sempre 200)
	mux.HandleFunc("/setup/start", s.setupStart)          // POST
	mux.HandleFunc("/setup/verify", s.setupVerify)        // POST
	return mux
}

func (s *Server) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.PaymentWebhook
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "json inválido")
		return
	}
	if req.TelegramID == 0 || req.GroupID == "" {
		writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "telegram_id e group_id obrigatórios")
		return
	}

	switch strings.ToLower(req.Event) {
	case "purchase_approved":
		if req.PeriodEnd == nil {
			writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "period_end obrigatório em purchase_approved")
			return
		}
		m, err := s.proc.HandlePurchaseApproved(r.Context(), req.TelegramID, req.GroupID, *req.PeriodEnd)
		if err != nil {
			s.writeAppErr(w, err)
			return
		}
		writeJSON(w, dto.NewMemberView(m))
	case "subscription_canceled":
		m, err := s.proc.HandleSubscriptionCanceled(r.Context(), req.TelegramID, req.GroupID)
		if err != nil {
			s.writeAppErr(w, err)
			return
		}
		writeJSON(w, dto.NewMemberView(m))
	default:
		writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "evento desconhecido: "+req.Event)
	}
}

// chatWebhook SEMPRE responde 200 pro transporte, mesmo com falha interna:
// retry de entrega do upstream só mascara o erro real. A falha fica no log.
func (s *Server) chatWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var ev dto.ChatEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.log.Warn("chat webhook: json inválido", zap.Error(err))
		writeJSON(w, map[string]bool{"ok": true})
		return
	}

	switch ev.Type {
	case "member_joined":
		res, err := s.proc.HandleMemberJoined(r.Context(), ev.TelegramID, ev.Username, ev.GroupID)
		if err != nil {
			s.log.Error("chat webhook: member_joined falhou",
				zap.Int64("telegram_id", ev.TelegramID),
				zap.String("group_id", ev.GroupID),
				zap.Error(err),
			)
			writeJSON(w, map[string]bool{"ok": true})
			return
		}
		writeJSON(w, dto.JoinResponse{
			Member:   dto.NewMemberView(res.Member),
			Allowed:  res.Decision.Allowed,
			Reason:   res.Decision.Reason,
			Created:  res.Created,
			Rejoined: res.Rejoined,
		})
	default:
		s.log.Warn("chat webhook: evento ignorado", zap.String("type", ev.Type))
		writeJSON(w, map[string]bool{"ok": true})
	}
}

func (s *Server) setupStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.SetupStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "json inválido")
		return
	}
	token, err := s.flow.Start(r.Context(), req.Phone, req.GroupID)
	if err != nil {
		s.writeAppErr(w, err)
		return
	}
	writeJSON(w, dto.SetupStartResponse{Token: token})
}

func (s *Server) setupVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.SetupVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "json inválido")
		return
	}
	if err := s.flow.Verify(r.Context(), req.Token, req.Code); err != nil {
		s.writeAppErr(w, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) writeAppErr(w http.ResponseWriter, err error) {
	code := apperr.Code(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	default:
		s.log.Error("operação falhou", zap.Error(err))
	}
	writeErr(w, status, code, err.Error())
}

func writeErr(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
