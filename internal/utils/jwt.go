package utils // package utils provides helpers for ids, tokens and hashing

import (
    "errors" // sentinel errors for token parsing
    "time"   // expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned by ParseAccessToken for any token that is
// malformed, expired or signed with another key.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string sent back in the Authorization
// header; Exp is the UTC expiration time.
type AccessToken struct {
    Token string    `json:"accessToken"`
    Exp   time.Time `json:"expiresAt"`
}

// Claims are the fields the API reads back out of an access token.
type Claims struct {
    Role string `json:"role"`
    jwt.RegisteredClaims
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The subject
// is the user id, the role claim carries the user's role and the token
// expires ttl after now.
func NewAccessToken(secret, userID, role string, ttl time.Duration, now time.Time) (AccessToken, error) {
    now = now.UTC()
    exp := now.Add(ttl)
    claims := Claims{
        Role: role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   userID,
            ExpiresAt: jwt.NewNumericDate(exp),
            IssuedAt:  jwt.NewNumericDate(now),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against secret and returns its claims.
// Only HS256 is accepted.
func ParseAccessToken(secret, raw string) (Claims, error) {
    var claims Claims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
    if err != nil || !tok.Valid || claims.Subject == "" {
        return Claims{}, ErrInvalidToken
    }
    return claims, nil
}
