package dialog

// Token элемент закрытого алфавита переходов. Кнопки ссылаются на
// токены, а не на произвольные строки, поэтому опечатка в шаблоне
// перехода не может молча перестать совпадать.
type Token string

const (
	// Онбординг.
	TokenAgreeTerms Token = "agree_terms"

	// Выбор роли.
	TokenRoleClient  Token = "role_client"
	TokenRoleWorker  Token = "role_worker"
	TokenRoleManager Token = "role_manager"

	// Меню клиента.
	TokenClientSubscriptions Token = "client_subscriptions"
	TokenClientNewTask       Token = "client_new_task"
	TokenClientMyTasks       Token = "client_my_tasks"

	// Подписки.
	TokenSubscriptionBuy    Token = "subscription_buy"
	TokenSubscriptionStatus Token = "subscription_status"
	TokenTierEconomy        Token = "tier_economy"
	TokenTierStandard       Token = "tier_standard"
	TokenTierVIP            Token = "tier_vip"
	TokenPayConfirm         Token = "pay_confirm"

	// Задачи клиента.
	TokenTaskWrite   Token = "task_write"
	TokenTaskSelect  Token = "task_select"
	TokenTaskComment Token = "task_comment"

	// Меню исполнителя.
	TokenWorkerAvailable Token = "worker_available"
	TokenWorkerOwnTasks  Token = "worker_own_tasks"
	TokenWorkerClaim     Token = "worker_claim"
	TokenWorkerComplete  Token = "worker_complete"

	// Меню менеджера.
	TokenManagerUnassigned  Token = "manager_unassigned"
	TokenManagerExportTasks Token = "manager_export_tasks"
	TokenManagerExportUsers Token = "manager_export_users"

	// Навигация.
	TokenListPage Token = "list_page"
	TokenBack     Token = "back"
)
