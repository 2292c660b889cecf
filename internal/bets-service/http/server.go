package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/bets-service/dto"
	"github.com/radieske/bet-community-platform/internal/bets-service/service"
	"github.com/radieske/bet-community-platform/internal/shared/apperr"
)

// Server expõe a API administrativa de apostas sugeridas. O escopo de tenant
// vem no header X-Group-ID; autenticação/papéis ficam no gateway externo.
type Server struct {
	log *zap.Logger
	svc *service.Service
}

func NewServer(log *zap.Logger, svc *service.Service) *Server {
	return &Server{log: log, svc: svc}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bets/bulk/", s.bulk)    // POST /bets/bulk/{odds|links}
	mux.HandleFunc("/bets/", s.betAction)    // POST /bets/{id}/{odds|link|promote|remove}
	mux.HandleFunc("/queue", s.queue)        // GET
	mux.HandleFunc("/next-post", s.nextPost) // GET
	return mux
}

func groupID(r *http.Request) string { return r.Header.Get("X-Group-ID") }

func (s *Server) betAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	gid := groupID(r)
	if gid == "" {
		writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "header X-Group-ID obrigatório")
		return
	}

	// path: /bets/{id}/{action}
	rest := strings.TrimPrefix(r.URL.Path, "/bets/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "path esperado /bets/{id}/{acao}")
		return
	}
	id, action := parts[0], parts[1]

	var (
		res dto.UpdateResponse
		err error
	)
	switch action {
	case "odds":
		var req dto.UpdateOddsRequest
		if derr := json.NewDecoder(r.Body).Decode(&req); derr != nil {
			writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "json inválido")
			return
		}
		res, err = s.svc.UpdateOdds(r.Context(), gid, id, req.Odds, req.Actor)
	case "link":
		var req dto.UpdateLinkRequest
		if derr := json.NewDecoder(r.Body).Decode(&req); derr != nil {
			writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "json inválido")
			return
		}
		res, err = s.svc.UpdateLink(r.Context(), gid, id, req.DeepLink, req.Actor)
	case "promote":
		var req dto.PromoteRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		res, err = s.svc.Promote(r.Context(), gid, id, req.Actor)
	case "remove":
		var req dto.RemoveRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		res, err = s.svc.Remove(r.Context(), gid, id, req.Actor)
	default:
		writeErr(w, http.StatusNotFound, "NOT_FOUND", "ação desconhecida")
		return
	}

	if err != nil {
		s.writeAppErr(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) bulk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	gid := groupID(r)
	if gid == "" {
		writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "header X-Group-ID obrigatório")
		return
	}

	kind := strings.TrimPrefix(r.URL.Path, "/bets/bulk/")
	var (
		res dto.BatchResponse
		err error
	)
	switch kind {
	case "odds":
		var req dto.BulkOddsRequest
		if derr := json.NewDecoder(r.Body).Decode(&req); derr != nil {
			writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "json inválido")
			return
		}
		res, err = s.svc.BulkUpdateOdds(r.Context(), gid, req.Items, req.Actor)
	case "links":
		var req dto.BulkLinksRequest
		if derr := json.NewDecoder(r.Body).Decode(&req); derr != nil {
			writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "json inválido")
			return
		}
		res, err = s.svc.BulkAssignLinks(r.Context(), gid, req.Items, req.Actor)
	default:
		writeErr(w, http.StatusNotFound, "NOT_FOUND", "lote desconhecido")
		return
	}

	if err != nil {
		s.writeAppErr(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) queue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	gid := groupID(r)
	if gid == "" {
		writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "header X-Group-ID obrigatório")
		return
	}
	res, err := s.svc.PostingQueue(r.Context(), gid)
	if err != nil {
		s.writeAppErr(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) nextPost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	gid := groupID(r)
	if gid == "" {
		writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "header X-Group-ID obrigatório")
		return
	}
	res, err := s.svc.NextPost(r.Context(), gid)
	if err != nil {
		s.writeAppErr(w, err)
		return
	}
	writeJSON(w, res)
}

// writeAppErr mapeia os sentinelas pra status HTTP.
func (s *Server) writeAppErr(w http.ResponseWriter, err error) {
	code := apperr.Code(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrAlreadyPromoted), errors.Is(err, apperr.ErrConflict):
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
