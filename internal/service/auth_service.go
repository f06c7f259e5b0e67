package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/smartclean-api/internal/models"
	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
)

type tokenStore interface {
	Save(ctx context.Context, nonce, accountID string, ttl time.Duration) error
	Consume(ctx context.Context, nonce string) (string, error)
}

type magicLinkSender interface {
	SendMagicLink(ctx context.Context, msg MagicLinkMessage) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret            string
	Issuer            string
	AccessTokenExpiry time.Duration
	RememberMeExpiry  time.Duration
	MagicLinkTTL      time.Duration
	MagicLinkBaseURL  string
}

// AuthService signs accounts in with a password check followed by a one-time magic link.
type AuthService struct {
	accounts accountRepository
	tokens   tokenStore
	sender   magicLinkSender
	metrics  *MetricsService
	logger   *zap.Logger
	config   AuthConfig
	now      func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(accounts accountRepository, tokens tokenStore, sender magicLinkSender, metrics *MetricsService, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = time.Hour
	}
	if config.RememberMeExpiry <= 0 {
		config.RememberMeExpiry = config.AccessTokenExpiry
	}
	if config.MagicLinkTTL <= 0 {
		config.MagicLinkTTL = 15 * time.Minute
	}
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		sender:   sender,
		metrics:  metrics,
		logger:   logger,
		config:   config,
		now:      time.Now,
	}
}

// LoginIssues checks the login form before any credentials are looked up.
func LoginIssues(req models.LoginRequest) []string {
	var issues []string
	if strings.TrimSpace(req.Email) == "" || !ValidEmail(req.Email) {
		issues = append(issues, "Please enter a valid email address.")
	}
	if utf8.RuneCountInString(req.Password) < minPasswordChars {
		issues = append(issues, "Password must be at least 8 characters long.")
	}
	return issues
}

// Login verifies the password and queues a magic link for the account.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if issues := LoginIssues(req); len(issues) > 0 {
		return nil, appErrors.Validation("login form has issues", issues)
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	rememberMe := req.RememberMe != nil && *req.RememberMe
	nonce := uuid.NewString()
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.MagicLinkTTL)

	token, err := s.sign(account, models.TokenPurposeMagicLink, nonce, rememberMe, issuedAt, expiresAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create magic link")
	}
	if err := s.tokens.Save(ctx, nonce, account.ID, s.config.MagicLinkTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to store magic link")
	}

	msg := MagicLinkMessage{
		Email:     account.Email,
		Name:      account.FullName,
		Link:      s.magicLinkURL(token),
		ExpiresAt: expiresAt,
	}
	if err := s.sender.SendMagicLink(ctx, msg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to send magic link")
	}
	s.metrics.ObserveMagicLink("issued")
	s.logger.Info("magic link issued", zap.String("account_id", account.ID), zap.String("ip", req.IP))

	return &models.LoginResponse{
		Email:     account.Email,
		Message:   fmt.Sprintf("We sent a secure magic link to %s. Open it on this device to continue.", account.Email),
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyMagicLink redeems a magic-link token for an access token. Each link works once.
func (s *AuthService) VerifyMagicLink(ctx context.Context, req models.VerifyMagicLinkRequest) (*models.AccessTokenResponse, error) {
	if strings.TrimSpace(req.Token) == "" {
		return nil, appErrors.Validation("magic link token is required", []string{"token is required"})
	}
	claims, err := s.parse(req.Token, models.TokenPurposeMagicLink)
	if err != nil {
		s.metrics.ObserveMagicLink("rejected")
		return nil, err
	}

	accountID, err := s.tokens.Consume(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			s.metrics.ObserveMagicLink("rejected")
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "magic link has already been used or has expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to redeem magic link")
	}
	if accountID != claims.AccountID {
		s.metrics.ObserveMagicLink("rejected")
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "magic link does not match account")
	}

	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	expiry := s.config.AccessTokenExpiry
	if claims.RememberMe {
		expiry = s.config.RememberMeExpiry
	}
	issuedAt := s.now().UTC()
	access, err := s.sign(account, models.TokenPurposeAccess, uuid.NewString(), claims.RememberMe, issuedAt, issuedAt.Add(expiry))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	s.metrics.ObserveMagicLink("redeemed")

	return &models.AccessTokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(expiry.Seconds()),
		IssuedAt:    issuedAt,
		Account:     *account,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	return s.parse(tokenString, models.TokenPurposeAccess)
}

// Me returns the account behind validated claims.
func (s *AuthService) Me(ctx context.Context, claims *models.JWTClaims) (*models.Account, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return s.loadAccount(ctx, claims.AccountID)
}

func (s *AuthService) loadAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	return account, nil
}

func (s *AuthService) sign(account *models.Account, purpose, id string, rememberMe bool, issuedAt, expiresAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		AccountID:   account.ID,
		AccountType: account.AccountType,
		Email:       account.Email,
		Purpose:     purpose,
		RememberMe:  rememberMe,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    s.config.Issuer,
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *AuthService) parse(tokenString, purpose string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.Purpose != purpose {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token cannot be used here")
	}
	return claims, nil
}

func (s *AuthService) magicLinkURL(token string) string {
	base := s.config.MagicLinkBaseURL
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + url.Values{"token": {token}}.Encode()
}
