package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/saludigital/cadastro/pkg/sanitizer"
)

// Claims carried by MemoryProvider access tokens.
type Claims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type memoryUser struct {
	User
	hash []byte
}

// MemoryProvider keeps users in memory and issues HS256 access tokens.
// Signed-out sessions are remembered until their tokens expire.
type MemoryProvider struct {
	secret     []byte
	issuer     string
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time

	mu      sync.RWMutex
	users   map[string]*memoryUser // by email
	revoked map[string]time.Time   // session ID -> token expiry
}

type MemoryOption func(*MemoryProvider)

func WithTokenTTL(ttl time.Duration) MemoryOption {
	return func(p *MemoryProvider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

func WithIssuer(iss string) MemoryOption {
	return func(p *MemoryProvider) { p.issuer = iss }
}

// WithBcryptCost sets the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) MemoryOption {
	return func(p *MemoryProvider) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			p.bcryptCost = cost
		}
	}
}

func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(p *MemoryProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// NewMemoryProvider creates a provider signing tokens with secret.
// Panics if secret is empty.
func NewMemoryProvider(secret string, opts ...MemoryOption) *MemoryProvider {
	if secret == "" {
		panic("auth: token secret is required")
	}
	p := &MemoryProvider{
		secret:     []byte(secret),
		issuer:     "cadastro",
		ttl:        time.Hour,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		users:      make(map[string]*memoryUser),
		revoked:    make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddUser registers a user. The password must satisfy ValidatePassword.
func (p *MemoryProvider) AddUser(email, password string) (*User, error) {
	email = sanitizer.NormalizeEmail(email)
	if _, err := ValidateCredentials(email, password); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.users[email]; ok {
		return nil, ErrUserExists
	}

	now := p.now().UTC()
	u := &memoryUser{
		User: User{ID: uuid.NewString(), Email: email, CreatedAt: now, UpdatedAt: now},
		hash: hash,
	}
	p.users[email] = u
	user := u.User
	return &user, nil
}

func (p *MemoryProvider) SignInWithPassword(_ context.Context, email, password string) (*Session, error) {
	email = sanitizer.NormalizeEmail(email)

	p.mu.RLock()
	u, ok := p.users[email]
	p.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p.issue(u.User)
}

func (p *MemoryProvider) GetSession(_ context.Context, accessToken string) (*Session, error) {
	claims, err := p.parse(accessToken)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	_, revoked := p.revoked[claims.SessionID]
	u, ok := p.users[claims.Email]
	p.mu.RUnlock()
	if revoked || !ok || u.ID != claims.UserID {
		return nil, ErrUnauthorized
	}

	return &Session{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   claims.ExpiresAt.UTC(),
		User:        u.User,
	}, nil
}

func (p *MemoryProvider) SignOut(_ context.Context, accessToken string) error {
	claims, err := p.parse(accessToken)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked[claims.SessionID] = claims.ExpiresAt.Time
	p.pruneRevoked()
	return nil
}

func (p *MemoryProvider) UpdatePassword(ctx context.Context, accessToken, newPassword string) (*User, error) {
	s, err := p.GetSession(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(newPassword); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), p.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[s.User.Email]
	if !ok {
		return nil, ErrUnauthorized
	}
	u.hash = hash
	u.UpdatedAt = p.now().UTC()
	user := u.User
	return &user, nil
}

func (p *MemoryProvider) issue(u User) (*Session, error) {
	now := p.now()
	exp := now.Add(p.ttl)
	claims := Claims{
		UserID:    u.ID,
		Email:     u.Email,
		SessionID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}

	return &Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   claims.ExpiresAt.UTC(),
		User:        u,
	}, nil
}

func (p *MemoryProvider) parse(accessToken string) (*Claims, error) {
	if accessToken == "" {
		return nil, ErrSessionNotFound
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	},
		jwt.WithIssuer(p.issuer),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return claims, nil
}

// pruneRevoked drops entries whose tokens have expired anyway. Callers hold mu.
func (p *MemoryProvider) pruneRevoked() {
	now := p.now()
	for sid, exp := range p.revoked {
		if now.After(exp) {
			delete(p.revoked, sid)
		}
	}
}
