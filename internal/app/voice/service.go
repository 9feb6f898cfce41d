// Package voice issues signed access tokens for the in-match voice channels.
package voice

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

const (
	TokenActionLogin = "login"
	TokenActionJoin  = "join"

	tokenTTL = time.Hour
)

// Service signs access tokens for table voice chat. One channel exists per
// match, named after the match ID.
type Service struct {
	secret string
	issuer string
	domain string
}

func NewService(secret, issuer, domain string) *Service {
	return &Service{
		secret: secret,
		issuer: issuer,
		domain: domain,
	}
}

// GenerateToken signs a token authorizing the user for the given action.
// Join tokens require the channel name; login tokens ignore it.
func (s *Service) GenerateToken(user, action, channelName string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("voice service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" || s.domain == "" {
		return "", fmt.Errorf("voice config is incomplete")
	}

	userURI := s.userURI(user)
	targetURI, err := s.targetURI(action, channelName, userURI)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": time.Now().Add(tokenTTL).Unix(),
		"vxa": action,
		"vxi": uuid.NewString(),
		"f":   userURI,
		"t":   targetURI,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *Service) userURI(user string) string {
	return "sip:." + s.issuer + "." + user + ".@" + s.domain
}

func (s *Service) channelURI(channelName string) string {
	return "sip:confctl-g-" + channelName + "@" + s.domain
}

func (s *Service) targetURI(action, channelName, userURI string) (string, error) {
	switch action {
	case TokenActionLogin:
		return userURI, nil
	case TokenActionJoin:
		if channelName == "" {
			return "", fmt.Errorf("channel name is required for join tokens")
		}
		return s.channelURI(channelName), nil
	default:
		return "", fmt.Errorf("unsupported voice action: %s", action)
	}
}
