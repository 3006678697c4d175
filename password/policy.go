package password

import (
	"fmt"
	"unicode"
)

// Policy defines a public type used by grcAuth APIs.
//
// Policy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Policy struct {
	MinLength        int
	MaxLength        int // 0 means unbounded
	RequireUpper     bool
	RequireLower     bool
	RequireDigit     bool
	RequireSpecial   bool
	ForbidWhitespace bool
}

// DefaultPolicy is the hardcoded fallback applied when a tenant has no
// complexity override configured.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:        12,
		RequireUpper:     true,
		RequireLower:     true,
		RequireDigit:     true,
		RequireSpecial:   true,
		ForbidWhitespace: true,
	}
}

// ValidationResult defines a public type used by grcAuth APIs.
//
// ValidationResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ValidationResult struct {
	Valid      bool
	Violations map[string]string
}

// Violation rule names. Keys are stable: client UIs map them to field-level
// hints.
const (
	RuleMinLength  = "minLength"
	RuleMaxLength  = "maxLength"
	RuleUppercase  = "uppercase"
	RuleLowercase  = "lowercase"
	RuleNumber     = "number"
	RuleSpecial    = "special"
	RuleWhitespace = "whitespace"
)

// Validate evaluates every rule of p against candidate independently and
// returns all violations at once.
func Validate(candidate string, p Policy) ValidationResult {
	violations := make(map[string]string)

	var hasUpper, hasLower, hasDigit, hasSpecial, hasSpace bool
	length := 0
	for _, r := range candidate {
		length++
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsSpace(r):
			hasSpace = true
		default:
			hasSpecial = true
		}
	}

	if length < p.MinLength {
		violations[RuleMinLength] = fmt.Sprintf("must be at least %d characters", p.MinLength)
	}
	if p.MaxLength > 0 && length > p.MaxLength {
		violations[RuleMaxLength] = fmt.Sprintf("must be at most %d characters", p.MaxLength)
	}
	if p.RequireUpper && !hasUpper {
		violations[RuleUppercase] = "must contain an uppercase letter"
	}
	if p.RequireLower && !hasLower {
		violations[RuleLowercase] = "must contain a lowercase letter"
	}
	if p.RequireDigit && !hasDigit {
		violations[RuleNumber] = "must contain a digit"
	}
	if p.RequireSpecial && !hasSpecial {
		violations[RuleSpecial] = "must contain a special character"
	}
	if p.ForbidWhitespace && hasSpace {
		violations[RuleWhitespace] = "must not contain whitespace"
	}

	return ValidationResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}
