// internal/identity/identity.go
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	apperrors "finops-assessment/internal/common/errors"
)

var publicEmailDomains = map[string]struct{}{
	"gmail.com": {}, "yahoo.com": {}, "outlook.com": {}, "hotmail.com": {},
	"aol.com": {}, "icloud.com": {}, "protonmail.com": {}, "mail.com": {},
	"zoho.com": {}, "gmx.com": {}, "yandex.com": {}, "live.com": {},
	"msn.com": {}, "me.com": {}, "pm.me": {}, "fastmail.com": {},
}

// EmailDomain returns the lowercased domain part of an address.
func EmailDomain(email string) (string, error) {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", apperrors.NewValidationError("invalid email address")
	}
	domain := strings.ToLower(email[at+1:])
	if !strings.Contains(domain, ".") || strings.ContainsAny(domain, " \t") {
		return "", apperrors.NewValidationError("invalid email domain")
	}
	return domain, nil
}

// IsPublicDomain reports whether domain belongs to a consumer mail provider.
func IsPublicDomain(domain string) bool {
	_, ok := publicEmailDomains[strings.ToLower(strings.TrimSpace(domain))]
	return ok
}

// ValidateCorporateEmail rejects malformed addresses and public mail
// providers, returning the email domain otherwise.
func ValidateCorporateEmail(email string) (string, error) {
	domain, err := EmailDomain(email)
	if err != nil {
		return "", err
	}
	if IsPublicDomain(domain) {
		return "", apperrors.NewPublicEmailDomainError(domain)
	}
	return domain, nil
}

// OrgHash identifies an organization by the sha256 of its email domain.
// It is the only organization identity stored and never leaves the service.
func OrgHash(email string) (string, error) {
	domain, err := EmailDomain(email)
	if err != nil {
		return "", err
	}
	return hashString(domain), nil
}

// UserHash is the sha256 of the normalized address.
func UserHash(email string) string {
	return hashString(strings.ToLower(strings.TrimSpace(email)))
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
