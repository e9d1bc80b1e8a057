package constants

// Credential kinds
const (
	TicketKindTicket     = "ticket"
	TicketKindInvitation = "invitation"
)

// Payment status
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusPending   = "pending"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
	PaymentStatusExpired   = "expired"
)

// Verification messages returned to the scanning operator
const (
	VerifyMsgValid            = "Ticket is valid"
	VerifyMsgNotFound         = "Ticket not found"
	VerifyMsgAlreadyUsed      = "Ticket already used"
	VerifyMsgNotActivated     = "Ticket not activated"
	VerifyMsgBatchDeactivated = "Ticket batch deactivated"
)

// Queue names
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// Async task types
const (
	TaskTicketExpire = "ticket:expire"
)

// Batch issuance limits
const (
	BatchMinTickets       = 1
	BatchMaxTickets       = 1000
	BatchAllocateAttempts = 5
)

// Upload scenes
const (
	UploadSceneGallery = "gallery"
	UploadSceneEvent   = "event"
)

// Message status
const (
	MessageStatusUnread = "unread"
	MessageStatusRead   = "read"
)
