package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+15551234567", NormalizePhone(" +1 (555) 123-4567 "))
	assert.Equal(t, "5551234", NormalizePhone("555-1234"))
}

func TestContactChecker(t *testing.T) {
	c := &ContactChecker{CheckDomain: true, domainOK: func(email string) bool {
		return email == "ada@example.com"
	}}

	assert.NoError(t, c.Check("ada@example.com", "+1 555 123 4567"))
	assert.Error(t, c.Check("ada@nowhere.invalid", ""))
	assert.Error(t, c.Check("ada@example.com", "12"))

	c.CheckDomain = false
	assert.NoError(t, c.Check("ada@nowhere.invalid", ""))

	var nilChecker *ContactChecker
	assert.NoError(t, nilChecker.Check("x", "y"))
}

func TestHasMailDomainRejectsMalformed(t *testing.T) {
	assert.False(t, HasMailDomain("no-at-sign"))
	assert.False(t, HasMailDomain("trailing@"))
}
