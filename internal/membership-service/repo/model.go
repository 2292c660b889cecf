package repo

// Group é a configuração de tenant consumida pelos sweeps: cada grupo pode
// definir a própria duração de trial.
type Group struct {
	ID        string
	Name      string
	TrialDays int
}
