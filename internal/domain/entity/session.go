package entity

// SessionState состояние диалога с пользователем бота
type SessionState string

const (
	StateMainMenu      SessionState = "main_menu"      // В главном меню
	StateAwaitingPhoto SessionState = "awaiting_photo" // Ожидание фото с маркером
	StateProcessing    SessionState = "processing"     // Идёт измерение
)

// Session состояние пользователя Telegram-бота
type Session struct {
	ID     int64        // Telegram User ID
	ChatID int64        // Telegram Chat ID
	State  SessionState // Текущее состояние
	Last   *Dimensions  // Последний успешный замер
	Count  int          // Сколько замеров выполнено
}

// NewSession создаёт сессию в главном меню
func NewSession(userID, chatID int64) *Session {
	return &Session{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
}

// Record запоминает результат замера и возвращает в главное меню
func (s *Session) Record(d Dimensions) {
	s.Last = &d
	s.Count++
	s.State = StateMainMenu
}
