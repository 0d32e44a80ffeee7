package form

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// validate backs the rule constructors. Rules only use Var checks, so a
// single shared instance is safe.
var validate = validator.New()

// Required fails with msg when the value is empty.
func Required(msg string) Rule {
	return func(value string, _ map[string]string) string {
		if validate.Var(value, "required") != nil {
			return msg
		}
		return ""
	}
}

// Email fails with msg when the value is not a well-formed email address.
// Empty values pass; chain with Required to also demand presence.
func Email(msg string) Rule {
	return func(value string, _ map[string]string) string {
		if value == "" {
			return ""
		}
		if validate.Var(value, "email") != nil {
			return msg
		}
		return ""
	}
}

// MinLength fails with msg when the value is shorter than n characters.
func MinLength(n int, msg string) Rule {
	tag := fmt.Sprintf("min=%d", n)
	return func(value string, _ map[string]string) string {
		if validate.Var(value, tag) != nil {
			return msg
		}
		return ""
	}
}

// PositiveAmount fails with msg unless the value parses as a number
// strictly greater than zero.
func PositiveAmount(msg string) Rule {
	return func(value string, _ map[string]string) string {
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return msg
		}
		if validate.Var(amount, "gt=0") != nil {
			return msg
		}
		return ""
	}
}

// IntegerID fails with msg unless the value parses as a positive integer.
// Wallet identifiers on the wire are positive ints.
func IntegerID(msg string) Rule {
	return func(value string, _ map[string]string) string {
		id, err := strconv.Atoi(value)
		if err != nil {
			return msg
		}
		if validate.Var(id, "gt=0") != nil {
			return msg
		}
		return ""
	}
}

// MatchesField fails with msg when the value differs from another field's
// current value. Used for password confirmation.
func MatchesField(other, msg string) Rule {
	return func(value string, values map[string]string) string {
		if value != values[other] {
			return msg
		}
		return ""
	}
}
