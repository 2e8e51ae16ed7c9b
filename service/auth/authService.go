package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DanielSousa07/Backend-Ludus/model"
	cooldownrepo "github.com/DanielSousa07/Backend-Ludus/repository/cooldown"
	mailerrepo "github.com/DanielSousa07/Backend-Ludus/repository/mailer"
	twiliorepo "github.com/DanielSousa07/Backend-Ludus/repository/twilio"
	userrepo "github.com/DanielSousa07/Backend-Ludus/repository/user"
	"github.com/DanielSousa07/Backend-Ludus/util/hash"
	jwtutil "github.com/DanielSousa07/Backend-Ludus/util/jwt"
)

type ErrCode string

const (
	ErrBadInput     ErrCode = "BAD_INPUT"
	ErrEmailTaken   ErrCode = "EMAIL_TAKEN"
	ErrPhoneTaken   ErrCode = "PHONE_TAKEN"
	ErrInvalidCreds ErrCode = "INVALID_CREDENTIALS"
	ErrInvalidCode  ErrCode = "INVALID_CODE"
	ErrCodeExpired  ErrCode = "CODE_EXPIRED"
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrCooldown     ErrCode = "WAIT_BEFORE_RESEND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// CooldownError carries the seconds left before a resend is permitted.
type CooldownError struct{ RetryAfter int }

func (e CooldownError) Error() string { return string(ErrCooldown) }
func (e CooldownError) Code() ErrCode { return ErrCooldown }

// Code extracts the error code, or "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const (
	tokenTTLHours = 7 * 24
	codeTTL       = 10 * time.Minute
	resendWindow  = 30 * time.Second
)

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
	VerifyEmail(ctx context.Context, identifier, code string) error
	VerifyPhone(ctx context.Context, identifier, code string) error
	ResendEmailCode(ctx context.Context, identifier string) error
	ResendPhoneCode(ctx context.Context, identifier string) error
}

type service struct {
	ur       userrepo.Repo
	sms      twiliorepo.Repo
	mail     mailerrepo.Repo
	cooldown cooldownrepo.Store
	secret   string
	log      *slog.Logger
}

func New(ur userrepo.Repo, sms twiliorepo.Repo, mail mailerrepo.Repo, cd cooldownrepo.Store, secret string, log *slog.Logger) Service {
	return &service{ur: ur, sms: sms, mail: mail, cooldown: cd, secret: secret, log: log}
}

var nonDigits = regexp.MustCompile(`\D`)

func cleanPhone(phone string) string {
	return nonDigits.ReplaceAllString(strings.TrimSpace(phone), "")
}

func newCode() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := cleanPhone(req.Phone)
	if name == "" || email == "" || req.Senha == "" {
		return nil, makeErr(ErrBadInput)
	}

	hashed, err := hash.HashPassword(req.Senha)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	emailCode := newCode()
	emailExp := now.Add(codeTTL)

	u := &model.User{
		Name:               name,
		Email:              email,
		PasswordHash:       hashed,
		Role:               model.RoleUser,
		EmailCode:          &emailCode,
		EmailCodeExpiresAt: &emailExp,
	}

	var phoneCode string
	if phone != "" {
		u.Phone = &phone
		phoneCode = newCode()
		phoneExp := now.Add(codeTTL)
		u.PhoneCode = &phoneCode
		u.PhoneCodeExpiresAt = &phoneExp
	}

	if err := s.ur.Create(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}

	// Registration opens the resend window; failures here only shorten
	// the first cooldown.
	if _, err := s.cooldown.Acquire(ctx, "email", email, resendWindow); err != nil {
		s.log.Warn("cooldown acquire failed", "channel", "email", "err", err)
	}
	if phone != "" {
		if _, err := s.cooldown.Acquire(ctx, "sms", phone, resendWindow); err != nil {
			s.log.Warn("cooldown acquire failed", "channel", "sms", "err", err)
		}
	}

	// Code dispatch is best-effort; a provider outage must not fail
	// the registration.
	go s.dispatchEmailCode(email, emailCode)
	if phone != "" {
		go s.dispatchSMSCode(phone, phoneCode)
	}

	return u, nil
}

func (s *service) dispatchEmailCode(email, code string) {
	if err := s.mail.SendVerificationCode(email, code); err != nil {
		s.log.Error("verification email failed", "email", email, "err", err)
	}
}

func (s *service) dispatchSMSCode(phone, code string) {
	if err := s.sms.SendSMS(phone, "Seu código de verificação Ludus é: "+code); err != nil {
		s.log.Error("verification sms failed", "phone", phone, "err", err)
	}
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)

		if strings.Contains(cn, "users_email") || strings.Contains(msg, "email") {
			return makeErr(ErrEmailTaken)
		}
		if strings.Contains(cn, "users_phone") || strings.Contains(msg, "phone") {
			return makeErr(ErrPhoneTaken)
		}
		return makeErr(ErrBadInput)
	}
	return nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	identifier := strings.ToLower(strings.TrimSpace(req.Email))
	if identifier == "" || req.Senha == "" {
		return nil, "", makeErr(ErrBadInput)
	}

	u, err := s.ur.ByEmailOrPhone(ctx, identifier, cleanPhone(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", makeErr(ErrInvalidCreds)
		}
		return nil, "", err
	}
	if !hash.Check(u.PasswordHash, req.Senha) {
		return nil, "", makeErr(ErrInvalidCreds)
	}

	token, err := jwtutil.Issue(s.secret, u.ID, string(u.Role), tokenTTLHours)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func (s *service) VerifyEmail(ctx context.Context, identifier, code string) error {
	code = strings.TrimSpace(code)
	if !sixDigits.MatchString(code) {
		return makeErr(ErrBadInput)
	}

	u, err := s.ur.ByEmail(ctx, strings.ToLower(strings.TrimSpace(identifier)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrInvalidCode)
		}
		return err
	}
	if err := checkCode(u.EmailCode, u.EmailCodeExpiresAt, code); err != nil {
		return err
	}
	return s.ur.MarkEmailVerified(ctx, u.ID)
}

func (s *service) VerifyPhone(ctx context.Context, identifier, code string) error {
	code = strings.TrimSpace(code)
	if !sixDigits.MatchString(code) {
		return makeErr(ErrBadInput)
	}

	phone := cleanPhone(identifier)
	if phone == "" {
		return makeErr(ErrBadInput)
	}
	u, err := s.ur.ByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrInvalidCode)
		}
		return err
	}
	if err := checkCode(u.PhoneCode, u.PhoneCodeExpiresAt, code); err != nil {
		return err
	}
	return s.ur.MarkPhoneVerified(ctx, u.ID)
}

func checkCode(stored *string, expiresAt *time.Time, code string) error {
	if stored == nil || *stored != code {
		return makeErr(ErrInvalidCode)
	}
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		return makeErr(ErrCodeExpired)
	}
	return nil
}

func (s *service) ResendEmailCode(ctx context.Context, identifier string) error {
	email := strings.ToLower(strings.TrimSpace(identifier))
	if email == "" {
		return makeErr(ErrBadInput)
	}

	u, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}

	retryAfter, err := s.cooldown.Acquire(ctx, "email", email, resendWindow)
	if err != nil {
		return err
	}
	if retryAfter > 0 {
		return CooldownError{RetryAfter: retryAfter}
	}

	code := newCode()
	if err := s.ur.SetEmailCode(ctx, u.ID, code, time.Now().Add(codeTTL)); err != nil {
		return err
	}
	go s.dispatchEmailCode(email, code)
	return nil
}

func (s *service) ResendPhoneCode(ctx context.Context, identifier string) error {
	phone := cleanPhone(identifier)
	if phone == "" {
		return makeErr(ErrBadInput)
	}

	u, err := s.ur.ByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}

	retryAfter, err := s.cooldown.Acquire(ctx, "sms", phone, resendWindow)
	if err != nil {
		return err
	}
	if retryAfter > 0 {
		return CooldownError{RetryAfter: retryAfter}
	}

	code := newCode()
	if err := s.ur.SetPhoneCode(ctx, u.ID, code, time.Now().Add(codeTTL)); err != nil {
		return err
	}
	go s.dispatchSMSCode(phone, code)
	return nil
}
