package utils

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// An anonymous submitter has no account to own their reports, so the server
// hands them a signed claim token instead: a JWT whose claims carry the IDs
// of the reports created from that client. Presenting the token is the only
// way an anonymous visitor can later view their own submissions.

const (
	// ClaimCookieName is the cookie carrying the claim token.
	ClaimCookieName = "relatorio_claims"

	// ClaimTokenTTL bounds how long an anonymous submitter can come back
	// for their reports.
	ClaimTokenTTL = 90 * 24 * time.Hour
)

var ErrInvalidClaimToken = errors.New("invalid claim token")

// SignClaimSet produces a claim token for the given report IDs.
func SignClaimSet(reportIDs []uint, secret []byte) (string, error) {
	ids := make([]interface{}, len(reportIDs))
	for i, id := range reportIDs {
		ids[i] = id
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"report_ids": ids,
		"exp":        time.Now().Add(ClaimTokenTTL).Unix(),
	})
	return token.SignedString(secret)
}

// ParseClaimSet validates a claim token and returns the report IDs it
// vouches for. Tampered, expired, or malformed tokens yield
// ErrInvalidClaimToken.
func ParseClaimSet(tokenString string, secret []byte) ([]uint, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidClaimToken
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidClaimToken
	}

	raw, ok := claims["report_ids"].([]interface{})
	if !ok {
		return nil, ErrInvalidClaimToken
	}

	ids := make([]uint, 0, len(raw))
	for _, v := range raw {
		f, ok := v.(float64)
		if !ok || f < 0 {
			return nil, ErrInvalidClaimToken
		}
		ids = append(ids, uint(f))
	}
	return ids, nil
}

// AppendClaim adds a report ID to the set, keeping it duplicate-free.
func AppendClaim(reportIDs []uint, id uint) []uint {
	for _, existing := range reportIDs {
		if existing == id {
			return reportIDs
		}
	}
	return append(reportIDs, id)
}

// ClaimSetContains reports membership.
func ClaimSetContains(reportIDs []uint, id uint) bool {
	for _, existing := range reportIDs {
		if existing == id {
			return true
		}
	}
	return false
}
