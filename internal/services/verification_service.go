package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"cloudauth/internal/models"
	"cloudauth/internal/repositories"
)

var (
	ErrDuplicateIdentity   = errors.New("username or email already registered")
	ErrNotFound            = errors.New("user not found")
	ErrAlreadyVerified     = errors.New("user already verified")
	ErrCodeExpired         = errors.New("code expired")
	ErrCodeInvalid         = errors.New("code invalid")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountNotActivated = errors.New("account not activated")
	ErrDeliveryFailed      = errors.New("verification email delivery failed")
)

const defaultVerificationTTL = 30 * time.Minute

// VerificationService владеет жизненным циклом регистрации: неактивная
// учётная запись → код на почту → подтверждение → активация → вход.
type VerificationService interface {
	Register(username, email, password string) error
	SendVerification(email string) error
	VerifyEmail(email, code string) error
	Login(username, password string) (string, error)
	GetUserByUsername(username string) (*models.User, error)
}

type verificationService struct {
	users   repositories.UserRepository
	codes   repositories.EmailVerificationRepository
	auth    AuthService
	email   EmailService
	codeTTL time.Duration // если 0 — возьмём defaultVerificationTTL
}

func NewVerificationService(
	users repositories.UserRepository,
	codes repositories.EmailVerificationRepository,
	auth AuthService,
	email EmailService,
	codeTTL time.Duration,
) VerificationService {
	if codeTTL <= 0 {
		codeTTL = defaultVerificationTTL
	}
	return &verificationService{
		users:   users,
		codes:   codes,
		auth:    auth,
		email:   email,
		codeTTL: codeTTL,
	}
}

// --- утилита генерации 6-значного кода ---
func (s *verificationService) generateCode() string {
	src := rand.NewSource(time.Now().UnixNano())
	rnd := rand.New(src)
	return fmt.Sprintf("%06d", rnd.Intn(1000000))
}

// Register — создаёт неактивного пользователя и отправляет код.
// Падение доставки не откатывает запись: клиенту остаётся resend.
func (s *verificationService) Register(username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hash,
		IsActive:       false,
	}
	if err := s.users.Create(user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return ErrDuplicateIdentity
		}
		return err
	}
	log.Printf("[verify][register] user created id=%d username=%q (inactive)", user.ID, username)

	return s.issueAndDispatch(email)
}

// SendVerification — новый независимый код для ещё не активного пользователя.
func (s *verificationService) SendVerification(email string) error {
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.IsActive {
		return ErrAlreadyVerified
	}
	return s.issueAndDispatch(email)
}

func (s *verificationService) issueAndDispatch(email string) error {
	code := s.generateCode()
	v := &models.EmailVerification{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(s.codeTTL),
	}
	if _, err := s.codes.Create(v); err != nil {
		return err
	}

	if err := s.email.SendVerificationEmail(email, code); err != nil {
		// код уже в базе, пользователь сможет запросить переотправку
		log.Printf("[verify][dispatch] warning: send to %s failed: %v", email, err)
		return ErrDeliveryFailed
	}
	log.Printf("[verify][dispatch] code sent email=%s expires_at=%s", email, v.ExpiresAt.Format(time.RFC3339))
	return nil
}

// VerifyEmail — сверяет код и атомарно активирует пользователя.
// Действителен только последний выданный код; погашенный или устаревший
// даёт ErrCodeInvalid/ErrCodeExpired.
func (s *verificationService) VerifyEmail(email, code string) error {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	v, err := s.codes.GetLatestByEmail(email)
	if err != nil {
		return err
	}
	if v == nil || v.IsUsed || v.Code != code {
		return ErrCodeInvalid
	}
	if time.Now().After(v.ExpiresAt) {
		return ErrCodeExpired
	}

	consumed, err := s.codes.ConsumeAndActivate(v.ID, email)
	if err != nil {
		return err
	}
	if !consumed {
		// параллельный verify успел первым
		return ErrCodeInvalid
	}
	log.Printf("[verify][confirm] OK email=%s user_id=%d", email, user.ID)
	return nil
}

// Login — токен выдаётся только активным пользователям. Неизвестное имя и
// неверный пароль не различаются, чтобы не подсказывать перебором.
func (s *verificationService) Login(username, password string) (string, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if err := s.auth.CheckPassword(user.HashedPassword, password); err != nil {
		log.Printf("[verify][login] bcrypt mismatch username=%q", username)
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", ErrAccountNotActivated
	}

	token, err := s.auth.GenerateAccessToken(user)
	if err != nil {
		return "", err
	}
	log.Printf("[verify][login] success user_id=%d username=%q", user.ID, username)
	return token, nil
}

func (s *verificationService) GetUserByUsername(username string) (*models.User, error) {
	return s.users.GetByUsername(username)
}
