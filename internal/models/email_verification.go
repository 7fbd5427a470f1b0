package models

import "time"

// EmailVerification — отдельная запись на каждую отправку кода.
// Коды привязаны к email, а не к user id: переотправка не зависит от
// того, когда окончательно зафиксирована учётная запись.
type EmailVerification struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `json:"is_used"`
	CreatedAt time.Time `json:"created_at"`
}
