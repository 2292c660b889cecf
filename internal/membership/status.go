package membership

// Status de acesso de um membro. Os valores seguem a nomenclatura do negócio
// e são as strings persistidas no banco.

type Status string

const (
	StatusTrial      Status = "trial"
	StatusActive     Status = "ativo"
	StatusDelinquent Status = "inadimplente"
	StatusRemoved    Status = "removido"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTrial, StatusActive, StatusDelinquent, StatusRemoved:
		return true
	}
	return false
}
