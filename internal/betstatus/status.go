package betstatus

// Enums fechados de status de aposta sugerida. Os valores persistidos são as
// strings abaixo; qualquer outro valor vindo do banco é tratado como inválido.

type Status string

const (
	StatusGenerated   Status = "generated"
	StatusPendingLink Status = "pending_link"
	StatusPendingOdds Status = "pending_odds"
	StatusReady       Status = "ready"
	StatusPosted      Status = "posted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusGenerated, StatusPendingLink, StatusPendingOdds, StatusReady, StatusPosted:
		return true
	}
	return false
}

type Eligibility string

const (
	EligibilityEligible Eligibility = "elegivel"
	EligibilityRemoved  Eligibility = "removida"
	EligibilityExpired  Eligibility = "expirada"
)

func (e Eligibility) Valid() bool {
	switch e {
	case EligibilityEligible, EligibilityRemoved, EligibilityExpired:
		return true
	}
	return false
}
