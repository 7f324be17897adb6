package session

import (
	"fmt"
	"math"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	// PasswordSelector matches the password input of the code-server login page
	PasswordSelector = `input[type="password"]`

	// SubmitSelector matches the login page's submit control
	SubmitSelector = `input[type="submit"]`

	loginPage = "login"
)

// FillPolicy bounds how long a shell keeps looking for the password field.
type FillPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultFillPolicy polls every 100ms for up to 5 seconds.
var DefaultFillPolicy = FillPolicy{Interval: 100 * time.Millisecond, MaxAttempts: 50}

// MaxTimeout is the longest Timeout a policy reports.
const MaxTimeout = time.Duration(math.MaxInt64)

// Timeout is the total time a shell may spend polling. It saturates at MaxTimeout.
func (p FillPolicy) Timeout() time.Duration {
	if p.Interval <= 0 || p.MaxAttempts <= 0 {
		return 0
	}
	if int64(p.MaxAttempts) > int64(MaxTimeout/p.Interval) {
		return MaxTimeout
	}
	return p.Interval * time.Duration(p.MaxAttempts)
}

// FillCommand asks the shell to fill the password field once and submit the form.
type FillCommand struct {
	Secret           string
	PasswordSelector string
	SubmitSelector   string
	Policy           FillPolicy
}

// NewFillCommand returns a command targeting the code-server login form.
func NewFillCommand(secret string, policy FillPolicy) FillCommand {
	return FillCommand{
		Secret:           secret,
		PasswordSelector: PasswordSelector,
		SubmitSelector:   SubmitSelector,
		Policy:           policy,
	}
}

// secretEscaper escapes backslash before quotes in a single pass, so an escape
// introduced for a quote is never escaped again. Line terminators cannot appear
// raw inside a JavaScript string literal.
var secretEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// EscapeSecret escapes a secret for use inside a quoted JavaScript string literal.
func EscapeSecret(secret string) string {
	return secretEscaper.Replace(secret)
}

// Script renders the command as JavaScript for shells that can only inject strings.
// It polls for the password field and gives up after the policy's attempt bound.
func (c FillCommand) Script() string {
	return fmt.Sprintf(`(() => { let attempts = 0; const timer = window.setInterval(() => { attempts++; const field = document.querySelector('%s'); if (field) { field.value = "%s"; const submit = document.querySelector('%s'); if (submit) { submit.click(); } window.clearInterval(timer); } else if (attempts >= %d) { window.clearInterval(timer); } }, %d); })();`,
		c.PasswordSelector,
		EscapeSecret(c.Secret),
		c.SubmitSelector,
		c.Policy.MaxAttempts,
		c.Policy.Interval.Milliseconds(),
	)
}

// IsLoginPage reports whether u is the endpoint's login page.
func IsLoginPage(u *url.URL) bool {
	if u == nil {
		return false
	}
	return path.Base(u.Path) == loginPage
}
