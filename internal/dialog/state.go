package dialog

// Шаги диалога. Значение хранится в models.UserState.CurrentStep.
const (
	StateStart             = "start"
	StateAwaitingAgreement = "awaiting_agreement"
	StateAwaitingName      = "awaiting_name"
	StateAwaitingPhone     = "awaiting_phone"
	StateChooseRole        = "choose_role"

	StateClientMenu           = "client_menu"
	StateSubscriptionsMenu    = "subscriptions_menu"
	StateSubscriptionTierMenu = "subscription_tier_menu"
	StatePaymentConfirm       = "payment_confirm"
	StateTaskComposeMenu      = "task_compose_menu"
	StateAwaitingTaskText     = "awaiting_task_text"
	StateClientTaskList       = "client_task_list"
	StateClientTaskDetail     = "client_task_detail"
	StateAwaitingTaskComment  = "awaiting_task_comment"

	StateWorkerMenu          = "worker_menu"
	StateWorkerAvailableList = "worker_available_list"
	StateWorkerOwnList       = "worker_own_list"
	StateWorkerTaskDetail    = "worker_task_detail"

	StateManagerMenu = "manager_menu"

	// StateIdle терминальное подтверждение. Достижимо из любого шага
	// через /cancel или /start.
	StateIdle = "idle"
)
