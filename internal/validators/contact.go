package validators

import (
	"context"
	"net"
	"strings"
	"time"
	"unicode"

	"github.com/Seimmet/dolcie-salon/internal/httperr"
)

// ContactChecker validates guest contact details captured at booking time.
// Syntax is checked by request binding; this adds the optional DNS check
// and phone normalization.
type ContactChecker struct {
	CheckDomain bool
	domainOK    func(email string) bool
}

func NewContactChecker(checkDomain bool) *ContactChecker {
	return &ContactChecker{CheckDomain: checkDomain, domainOK: HasMailDomain}
}

func (c *ContactChecker) Check(email, phone string) error {
	if c == nil {
		return nil
	}
	if c.CheckDomain && !c.domainOK(email) {
		return httperr.ErrInvalidRequest
	}
	if phone != "" && len(NormalizePhone(phone)) < 7 {
		return httperr.ErrInvalidRequest
	}
	return nil
}

// NormalizePhone keeps digits and a leading plus sign.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		if unicode.IsDigit(r) || (i == 0 && r == '+') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasMailDomain reports whether the email's domain resolves to an MX record
// or, failing that, to any address.
func HasMailDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if mx, err := net.DefaultResolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	ips, err := net.DefaultResolver.LookupIPAddr(ctx, domain)
	return err == nil && len(ips) > 0
}
