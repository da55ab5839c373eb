package models

// User представляет учётную запись, полученную при входе.
// Хранится в памяти и зеркалируется в локальное хранилище;
// при выходе запись из хранилища удаляется.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Session — снимок состояния авторизации. Живёт ровно один экземпляр
// на запуск приложения. Инвариант: IsAuthenticated == (Token != "" && User != nil).
// IsLoading истинно только во время начальной гидратации из хранилища.
type Session struct {
	IsAuthenticated bool
	User            *User
	Token           string
	IsLoading       bool
}
