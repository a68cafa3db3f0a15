// Package policy holds the pure per-account-type movement rules: the hard
// monthly movement caps and the commission charged once the free-movement
// threshold is exceeded. Nothing in this package touches storage.
package policy

import (
	"fmt"

	"github.com/acmebank/account-service/internal/models"
	"github.com/shopspring/decimal"
)

// Monthly movement caps per account type. CURRENT accounts have no cap.
const (
	SavingsMaxMovements   = 10
	FixedTermMaxMovements = 1
)

// Free movements before a commission applies
const (
	SavingsFreeMovements = 10
	CurrentFreeMovements = 20
)

// CurrentMovementFee is charged on CURRENT accounts past the free threshold
var CurrentMovementFee = decimal.RequireFromString("1.50")

// Decision is the outcome of a movement-limit evaluation
type Decision struct {
	Reason  string
	Allowed bool
}

// Allow is the decision for an unconstrained movement
var Allow = Decision{Allowed: true}

func blocked(reason string) Decision {
	return Decision{Reason: reason}
}

// Evaluate decides whether an account of the given type may perform another
// movement given its current movement count. Unknown account types are
// blocked rather than silently allowed.
func Evaluate(accountType models.AccountType, movementCount int) Decision {
	switch accountType {
	case models.AccountTypeSavings:
		if movementCount >= SavingsMaxMovements {
			return blocked(fmt.Sprintf(
				"savings account reached the maximum of %d monthly movements",
				SavingsMaxMovements))
		}
		return Allow

	case models.AccountTypeCurrent:
		return Allow

	case models.AccountTypeFixedTerm:
		if movementCount >= FixedTermMaxMovements {
			return blocked("fixed-term account already used its single monthly movement")
		}
		return Allow

	default:
		return blocked(fmt.Sprintf("movements not allowed for account type %q", accountType))
	}
}

// Commission returns the fee for the would-be next movement, evaluated on
// the pre-increment count. Only CURRENT accounts ever pay: their free
// thresholds coincide with the hard caps for SAVINGS and FIXED_TERM, so
// those branches return zero because Evaluate blocks first.
func Commission(accountType models.AccountType, movementCount int) decimal.Decimal {
	switch accountType {
	case models.AccountTypeCurrent:
		if movementCount >= CurrentFreeMovements {
			return CurrentMovementFee
		}
		return decimal.Zero

	case models.AccountTypeSavings, models.AccountTypeFixedTerm:
		return decimal.Zero

	default:
		return decimal.Zero
	}
}
