package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldUserID      = "user_id"
	FieldAmountCents = "amount_cents"
	FieldTxType      = "transaction_type"
	FieldDescription = "description"
	FieldGoalName    = "goal_name"
	FieldDeadline    = "deadline"
	FieldTitle       = "title"
	FieldEntity      = "entity"
	FieldAction      = "action"
	FieldID          = "id"
	FieldSpan        = "span"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
)

// Standard component names.
const (
	ComponentApp       = "app"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentScheduler = "scheduler"
	ComponentNotifier  = "notifier"
	ComponentService   = "service"
	ComponentWorker    = "worker"
	ComponentReport    = "report"
	ComponentHTTP      = "http"
	ComponentSheets    = "sheets"
	ComponentState     = "state"
)
