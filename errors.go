package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes let API clients branch on failures without string matching
const (
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeTooManyAttempts = "TOO_MANY_ATTEMPTS"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeTokenMalformed  = "TOKEN_MALFORMED"
	TextCodeTokenInvalid    = "TOKEN_INVALID"
	TextCodeSessionNotFound = "SESSION_NOT_FOUND"
	TextCodeEmptyPassword   = "EMPTY_PASSWORD"
	TextCodeMissingKey      = "MISSING_SIGNING_KEY"
	TextCodeEmailTaken      = "EMAIL_TAKEN"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound)

// ErrMismatchedHashAndPassword covers both unknown identifier and wrong
// password. Callers must not be able to tell the two apart.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrTooManyLoginAttempts signals the rate governor denied the attempt
var ErrTooManyLoginAttempts = errors.New("too many attempts, retry later", errors.CategoryRateLimit).
	WithCode(errors.CodeTooManyRequests).
	WithTextCode(TextCodeTooManyAttempts)

// ErrTokenExpired is returned when exp is in the past
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is returned for tokens we cannot parse
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenInvalid is returned for signature mismatches and incomplete claims
var ErrTokenInvalid = errors.New("token is invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenInvalid)

// ErrUnableToFindSession is the error when our request has no session cookie
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeSessionNotFound)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrMissingSigningKey is a process misconfiguration, callers should treat
// it as fatal at startup rather than a request error
var ErrMissingSigningKey = errors.New("signing key is required", errors.CategoryInternal).
	WithTextCode(TextCodeMissingKey)

// ErrEmailTaken is returned when registration hits an existing email
var ErrEmailTaken = errors.New("email is already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsRateLimitedError will check for governor denials
func IsRateLimitedError(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	return errors.As(err, &rich) && rich.Category == errors.CategoryRateLimit
}
