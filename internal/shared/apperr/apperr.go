package apperr

import "errors"

// Erros-sentinela compartilhados entre os serviços.
// Permitem que a camada HTTP mapeie a decisão interna para um status code
// (ex.: ErrNotFound -> 404, ErrConflict -> 409) sem inspecionar strings.
var (
	ErrValidation = errors.New("VALIDATION_ERROR")
	ErrNotFound   = errors.New("NOT_FOUND")
	ErrConflict   = errors.New("CONFLICT")
	ErrDB         = errors.New("DB_ERROR")

	// Específicos do engine de apostas
	ErrAlreadyPromoted = errors.New("ALREADY_PROMOTED")

	// Decisões do engine de membership (nem sempre são falhas)
	ErrMissingKickTimestamp = errors.New("MISSING_KICK_TIMESTAMP")
	ErrRejoinWindowExpired  = errors.New("REJOIN_WINDOW_EXPIRED")
)

// Code retorna o código estável do erro para respostas e listas de erros de lote.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrAlreadyPromoted):
		return "ALREADY_PROMOTED"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrMissingKickTimestamp):
		return "MISSING_KICK_TIMESTAMP"
	case errors.Is(err, ErrRejoinWindowExpired):
		return "REJOIN_WINDOW_EXPIRED"
	case errors.Is(err, ErrDB):
		return "DB_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
