package topics

const (
	// Membros
	MemberJoined = "member_joined"
	MemberKicked = "member_kicked"

	// Apostas sugeridas
	BetPosted = "bet_posted"

	// Auditoria (best-effort)
	AuditLog = "audit_log"

	// DLQs
	MemberKickedDLQ = "member_kicked_dlq"
	BetPostedDLQ    = "bet_posted_dlq"
)
