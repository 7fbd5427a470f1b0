package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"cloudauth/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int64) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

// IsUniqueViolation — нарушение UNIQUE-ограничения (username или email заняты).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (username, email, hashed_password, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt); err != nil {
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(id int64) (*models.User, error) {
	return r.getOne(`WHERE id = $1`, id)
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	return r.getOne(`WHERE username = $1`, username)
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(`WHERE email = $1`, email)
}

func (r *userRepository) getOne(where string, arg interface{}) (*models.User, error) {
	q := `
		SELECT id, username, email, hashed_password, is_active, created_at
		FROM users
	` + where
	u := &models.User{}
	err := r.DB.QueryRow(q, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("user get: %w", err)
	}
	return u, nil
}
