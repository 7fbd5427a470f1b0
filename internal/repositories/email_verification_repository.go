package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"cloudauth/internal/models"
)

type EmailVerificationRepository interface {
	Create(v *models.EmailVerification) (int64, error)
	GetLatestByEmail(email string) (*models.EmailVerification, error)
	ConsumeAndActivate(verificationID int64, email string) (bool, error)
}

type emailVerificationRepository struct {
	DB *sql.DB
}

func NewEmailVerificationRepository(db *sql.DB) EmailVerificationRepository {
	return &emailVerificationRepository{DB: db}
}

// Create — создаёт новую запись верификации (каждая отправка — новая строка).
func (r *emailVerificationRepository) Create(v *models.EmailVerification) (int64, error) {
	const q = `
		INSERT INTO email_verifications (email, verification_code, expires_at, is_used)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, v.Email, v.Code, v.ExpiresAt).Scan(&v.ID, &v.CreatedAt); err != nil {
		return 0, fmt.Errorf("email_verification create: %w", err)
	}
	return v.ID, nil
}

// GetLatestByEmail — последняя отправка для адреса (по created_at DESC).
// Действителен только самый свежий код: старые строки остаются в таблице,
// но подтвердить ими ничего нельзя.
func (r *emailVerificationRepository) GetLatestByEmail(email string) (*models.EmailVerification, error) {
	const q = `
		SELECT id, email, verification_code, expires_at, is_used, created_at
		FROM email_verifications
		WHERE email = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	row := r.DB.QueryRow(q, email)
	var v models.EmailVerification
	if err := row.Scan(&v.ID, &v.Email, &v.Code, &v.ExpiresAt, &v.IsUsed, &v.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("email_verification latest: %w", err)
	}
	return &v, nil
}

// ConsumeAndActivate — атомарно гасит код и активирует пользователя.
// Условный UPDATE закрывает гонку двух одновременных verify: проигравший
// видит 0 строк и получает false без каких-либо побочных эффектов.
func (r *emailVerificationRepository) ConsumeAndActivate(verificationID int64, email string) (bool, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return false, fmt.Errorf("email_verification consume begin: %w", err)
	}

	res, err := tx.Exec(`
		UPDATE email_verifications
		SET is_used = TRUE
		WHERE id = $1 AND is_used = FALSE AND expires_at > NOW()
	`, verificationID)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("email_verification consume: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("email_verification consume rows: %w", err)
	}
	if n == 0 {
		tx.Rollback()
		return false, nil
	}

	if _, err := tx.Exec(`UPDATE users SET is_active = TRUE WHERE email = $1`, email); err != nil {
		tx.Rollback()
		return false, fmt.Errorf("user activate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("email_verification consume commit: %w", err)
	}
	return true, nil
}
