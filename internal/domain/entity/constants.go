package entity

// Status constants for PaymentRequest
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusScheduled = "SCHEDULED"
	StatusPaid      = "PAID"
)

// Role constants for request viewers and actors
const (
	RoleLeader  = "LEADER"
	RoleChecker = "CHECKER"
	RoleOwner   = "OWNER"
	RoleAdmin   = "ADMIN"
)

// Expense type constants
const (
	ExpenseTypeLabor     = "LABOR"
	ExpenseTypeMaterials = "MATERIALS"
	ExpenseTypeTransport = "TRANSPORT"
	ExpenseTypeEquipment = "EQUIPMENT"
	ExpenseTypeFuel      = "FUEL"
	ExpenseTypeFood      = "FOOD"
	ExpenseTypeOther     = "OTHER"
)

// Image source constants identify which entity an image belongs to
const (
	ImageSourceProgress = "PROGRESS"
	ImageSourceFinal    = "FINAL"
)

// Review action constants for history entries
const (
	ActionSubmit   = "SUBMIT"
	ActionApprove  = "APPROVE"
	ActionReject   = "REJECT"
	ActionSchedule = "SCHEDULE"
	ActionPay      = "PAY"
)
