package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"restaurante-admin/internal/config"
	"restaurante-admin/internal/domain"
	"restaurante-admin/internal/pkg/watch"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// tokenKey is where the admin auth flow deposits the operator's bearer
// token, shared with this process through redis.
const tokenKey = "admin:session:token"

type Claims struct {
	UserID string          `json:"user_id"`
	Nombre string          `json:"nombre"`
	Email  string          `json:"email"`
	Role   domain.UserRole `json:"rol"`
	jwt.RegisteredClaims
}

// Service is the auth/session collaborator the realtime core reads its
// credential and operator identity from.
type Service interface {
	// Token returns the current bearer credential, empty when logged out.
	Token() string
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context)

	// User returns the operator identity from the current token, nil when
	// there is no valid session.
	User() *domain.User

	Validate(token string) (*Claims, error)

	// Watch publishes the credential whenever it changes. The connection
	// manager uses this to reconnect after a login.
	Watch(sub watch.Subscriber[string]) (cancel func())
}

type service struct {
	cfg   *config.Config
	redis *redis.Client

	token *watch.Source[string]
}

// NewService loads the stored credential, preferring redis over the
// SOCKET_TOKEN fallback. A nil redis client is allowed.
func NewService(cfg *config.Config, rdb *redis.Client) Service {
	s := &service{
		cfg:   cfg,
		redis: rdb,
		token: watch.New(""),
	}

	tok := cfg.SocketToken
	if rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if stored, err := rdb.Get(ctx, tokenKey).Result(); err == nil && stored != "" {
			tok = stored
		}
	}
	if tok != "" {
		if _, err := s.Validate(tok); err == nil {
			s.token.Set(tok)
		}
	}

	return s
}

func (s *service) Token() string {
	return s.token.Get()
}

func (s *service) SetToken(ctx context.Context, token string) error {
	claims, err := s.Validate(token)
	if err != nil {
		return err
	}

	if s.redis != nil {
		ttl := time.Duration(0)
		if claims.ExpiresAt != nil {
			ttl = time.Until(claims.ExpiresAt.Time)
		}
		if err := s.redis.Set(ctx, tokenKey, token, ttl).Err(); err != nil {
			return err
		}
	}

	s.token.Set(token)
	return nil
}

func (s *service) Clear(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, tokenKey).Err()
	}
	s.token.Set("")
}

func (s *service) User() *domain.User {
	tok := s.token.Get()
	if tok == "" {
		return nil
	}
	claims, err := s.Validate(tok)
	if err != nil {
		return nil
	}
	return &domain.User{
		ID:     claims.UserID,
		Nombre: claims.Nombre,
		Email:  claims.Email,
		Role:   claims.Role,
	}
}

func (s *service) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *service) Watch(sub watch.Subscriber[string]) (cancel func()) {
	return s.token.Subscribe(sub)
}
