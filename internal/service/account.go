package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Okpara007/buzz4less/internal/model"
	"github.com/Okpara007/buzz4less/internal/repository"
)

var (
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrNotVerified         = errors.New("account is not verified")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrCodeExhausted       = errors.New("could not generate a unique referral code")
	ErrInvalidOrExpired    = errors.New("verification code is invalid or expired")
)

const (
	verificationCodeLength = 6
	verificationCodeTTL    = 10 * time.Minute
	sessionTokenTTL        = 24 * time.Hour

	// How many fresh candidates to try when the unique constraint on
	// referral codes rejects one. The constraint is the authority; the
	// pre-generation randomness only makes collisions rare.
	maxReferralCodeAttempts = 5
)

// Mailer is the outbound email collaborator. Delivery failures surface
// synchronously as a failure of the operation that needed the mail.
type Mailer interface {
	Send(subject, body string, to ...string) error
}

// AccountStore is what the account service needs from persistence.
type AccountStore interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateAccount(ctx context.Context, user *model.User, profile *model.VerificationProfile, referrerID int64, referralCode string) error
	GetVerificationProfile(ctx context.Context, userID int64) (*model.VerificationProfile, error)
	MarkVerified(ctx context.Context, userID int64) error
	GetReferralByCode(ctx context.Context, code string) (*model.ReferralRecord, error)
}

type AccountService struct {
	store     AccountStore
	mailer    Mailer
	baseURL   string
	jwtSecret string
	logger    *zap.Logger
}

func NewAccountService(store AccountStore, mailer Mailer, baseURL, jwtSecret string, logger *zap.Logger) *AccountService {
	return &AccountService{
		store:     store,
		mailer:    mailer,
		baseURL:   baseURL,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

type RegisterInput struct {
	FullName     string `json:"full_name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Password2    string `json:"password2"`
	ReferralCode string `json:"referral_code,omitempty"`
}

// Register validates the signup, then creates the inactive user, their
// verification profile and their referral record atomically, and dispatches
// the verification email. Validation failures happen before any write.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Password != in.Password2 {
		return nil, ErrPasswordMismatch
	}

	if _, err := s.store.GetUserByUsername(ctx, in.Username); err == nil {
		return nil, repository.ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, repository.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	// Chain-by-referred-user: the new user's referrer is the referred
	// user of the record the supplied code matched.
	var referrerID int64
	if in.ReferralCode != "" {
		matched, err := s.store.GetReferralByCode(ctx, in.ReferralCode)
		if err != nil {
			if errors.Is(err, repository.ErrReferralNotFound) {
				return nil, ErrInvalidReferralCode
			}
			return nil, err
		}
		referrerID = matched.ReferredUserID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	first, last := model.SplitFullName(in.FullName)
	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    first,
		LastName:     last,
		PasswordHash: string(hash),
		IsActive:     false,
	}

	code, err := generateVerificationCode()
	if err != nil {
		return nil, err
	}
	profile := &model.VerificationProfile{
		Code:      code,
		ExpiresAt: time.Now().Add(verificationCodeTTL),
	}

	created := false
	for attempt := 0; attempt < maxReferralCodeAttempts; attempt++ {
		err = s.store.CreateAccount(ctx, user, profile, referrerID, NewReferralCode())
		if errors.Is(err, repository.ErrReferralCodeTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		created = true
		break
	}
	if !created {
		return nil, ErrCodeExhausted
	}

	if err := s.sendVerificationEmail(user, profile.Code); err != nil {
		s.logger.Error("failed to send verification email",
			zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to send verification email: %w", err)
	}

	s.logger.Info("account registered",
		zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Verify activates the account when the presented code matches exactly and
// has not expired. A replayed code after success still passes the check;
// that replay window is accepted behavior.
func (s *AccountService) Verify(ctx context.Context, email, code string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidOrExpired
		}
		return err
	}

	profile, err := s.store.GetVerificationProfile(ctx, user.ID)
	if err != nil {
		return err
	}

	if !profile.CodeMatches(code, time.Now()) {
		return ErrInvalidOrExpired
	}

	return s.store.MarkVerified(ctx, user.ID)
}

// Authenticate checks credentials and returns a signed session token.
// A correct password on an unverified account is reported as ErrNotVerified,
// never as a generic credential failure.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, ErrNotVerified
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(sessionTokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, user, nil
}

func (s *AccountService) sendVerificationEmail(user *model.User, code string) error {
	link := fmt.Sprintf("%s/verify-email?email=%s&code=%s",
		s.baseURL, url.QueryEscape(user.Email), url.QueryEscape(code))
	body := fmt.Sprintf(
		"Hi %s,\n\nYour verification code is %s. It expires in 10 minutes.\n\nVerify your account: %s\n",
		user.FirstName, code, link)
	return s.mailer.Send("Verify your email", body, user.Email)
}

const verificationCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateVerificationCode() (string, error) {
	buf := make([]byte, verificationCodeLength)
	max := big.NewInt(int64(len(verificationCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate verification code: %w", err)
		}
		buf[i] = verificationCharset[n.Int64()]
	}
	return string(buf), nil
}
