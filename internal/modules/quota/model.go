// README: Monthly generation quota rules.
package quota

import "errors"

var (
	// ErrQuotaExhausted is returned when a user has no generations left this month.
	ErrQuotaExhausted = errors.New("generation quota exhausted")
	ErrMissingUser    = errors.New("user id is required")
)

// DefaultMonthlyGenerations is the allowance when none is configured.
const DefaultMonthlyGenerations = 30

const monthLayout = "2006-01"
