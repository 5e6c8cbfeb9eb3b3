package response

import (
	"time"

	"turf-reservation/internal/domain/auth"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type TokenResponse struct {
	TokenType        string    `json:"token_type"`
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type AuthResponse struct {
	UserID uuid.UUID     `json:"user_id"`
	Tokens TokenResponse `json:"tokens"`
}

func FromTokenPair(pair auth.TokenPair) (TokenResponse, error) {
	resp := TokenResponse{TokenType: "Bearer"}
	if err := copier.Copy(&resp, &pair); err != nil {
		return TokenResponse{}, err
	}
	return resp, nil
}

func FromAuthResult(userID uuid.UUID, pair auth.TokenPair) (*AuthResponse, error) {
	tokens, err := FromTokenPair(pair)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{UserID: userID, Tokens: tokens}, nil
}
