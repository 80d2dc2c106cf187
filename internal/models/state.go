package models

// UserState положение пользователя в диалоге и черновик введённых данных.
// Живёт в Redis (JSON) либо в памяти, поэтому все значения TempData после
// десериализации могут менять конкретный тип — геттеры нормализуют их.
type UserState struct {
	UserID      int64                  `json:"user_id"`
	CurrentStep string                 `json:"current_step"`
	TempData    map[string]interface{} `json:"temp_data"`
}

// Ключи TempData отдельных шагов диалога.
const (
	TempPendingName    = "pending_name"
	TempPendingPhone   = "pending_phone"
	TempSelectedTaskID = "selected_task_id"
	TempPendingTier    = "pending_tier"
	TempListPage       = "list_page"
)

func (s *UserState) GetInt64(key string) int64 {
	if s.TempData == nil {
		return 0
	}
	val, ok := s.TempData[key]
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case int:
		return int64(v)
	default:
		return 0
	}
}

func (s *UserState) GetString(key string) string {
	if s.TempData == nil {
		return ""
	}
	val, ok := s.TempData[key]
	if !ok {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// Set кладёт значение в черновик, создавая карту при первом обращении.
func (s *UserState) Set(key string, value interface{}) {
	if s.TempData == nil {
		s.TempData = make(map[string]interface{})
	}
	s.TempData[key] = value
}
