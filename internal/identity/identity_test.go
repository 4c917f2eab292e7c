package identity

import (
	"testing"

	apperrors "finops-assessment/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrgHash_SameDomainSameHash(t *testing.T) {
	a, err := OrgHash("alice@Example.com")
	require.NoError(t, err)
	b, err := OrgHash("  bob@example.COM ")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	// sha256("example.com")
	assert.Equal(t, "a379a6f6eeafb9a55e378c118034e2751e682fab9f2d30ab13d2125586ce1947", a)
}

func TestOrgHash_DifferentDomains(t *testing.T) {
	a, _ := OrgHash("x@acme.io")
	b, _ := OrgHash("x@globex.io")
	assert.NotEqual(t, a, b)
}

func TestEmailDomain_Invalid(t *testing.T) {
	for _, email := range []string{"", "no-at-sign", "@acme.io", "user@", "user@localhost"} {
		_, err := EmailDomain(email)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed), email)
	}
}

func TestValidateCorporateEmail(t *testing.T) {
	domain, err := ValidateCorporateEmail("cfo@Acme.io")
	require.NoError(t, err)
	assert.Equal(t, "acme.io", domain)

	_, err = ValidateCorporateEmail("someone@gmail.com")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodePublicEmailDomain))

	_, err = ValidateCorporateEmail("someone@PM.ME")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodePublicEmailDomain))
}

func TestUserHash_Normalizes(t *testing.T) {
	assert.Equal(t, UserHash("Alice@Acme.io"), UserHash(" alice@acme.io"))
	assert.NotEqual(t, UserHash("alice@acme.io"), UserHash("bob@acme.io"))
}
