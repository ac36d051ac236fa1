package rejoin

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// Claims identifies the seat a rejoin token grants access to.
type Claims struct {
	GameID string
	UserID string
}

// Service issues and validates short-lived rejoin tokens. A player who
// loses their connection mid-game presents the token to reclaim their
// seat instead of entering as a spectator.
type Service struct {
	secret string
	issuer string
	ttl    time.Duration
}

// NewService constructs a rejoin token service. ttl <= 0 defaults to one hour.
func NewService(secret, issuer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
	}
}

// Generate signs a token binding userID to its seat in gameID.
func (s *Service) Generate(userID, gameID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("rejoin service is nil")
	}
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	if gameID == "" {
		return "", fmt.Errorf("game id is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("rejoin config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": userID,
		"gid": gameID,
		"exp": time.Now().Add(s.ttl).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Validate parses a rejoin token and returns the seat it grants.
// Expired or tampered tokens are rejected.
func (s *Service) Validate(tokenString string) (Claims, error) {
	if s == nil || s.secret == "" {
		return Claims{}, fmt.Errorf("rejoin config is incomplete")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("invalid rejoin token: %w", err)
	}
	if !token.Valid {
		return Claims{}, fmt.Errorf("invalid rejoin token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("invalid rejoin token claims")
	}
	if s.issuer != "" {
		if iss, _ := mapClaims["iss"].(string); iss != s.issuer {
			return Claims{}, fmt.Errorf("invalid rejoin token issuer")
		}
	}

	sub, _ := mapClaims["sub"].(string)
	gid, _ := mapClaims["gid"].(string)
	if sub == "" || gid == "" {
		return Claims{}, fmt.Errorf("rejoin token is missing seat claims")
	}
	return Claims{GameID: gid, UserID: sub}, nil
}
