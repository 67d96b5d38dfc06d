package tax

import (
	"fmt"

	"github.com/retirewise/retirewise/internal/domain"
	"github.com/retirewise/retirewise/internal/taxdata"
)

// RMDStartAge is the first age with a Uniform Lifetime factor; below it
// no distribution is required.
const RMDStartAge = 72

// RMDAmount divides the balance by the IRS Uniform Lifetime factor for
// the age. Ages below the start age require nothing; an age past the end
// of the table is a hard error rather than a silent zero, since a zero
// would quietly understate a statutory obligation.
func (e *Engine) RMDAmount(balance domain.Cents, age int) (domain.Cents, error) {
	if age < RMDStartAge {
		return 0, nil
	}
	if balance <= 0 {
		return 0, nil
	}
	factor, ok := taxdata.UniformLifetimeFactor(age)
	if !ok {
		return 0, fmt.Errorf("no uniform lifetime factor for age %d", age)
	}
	return domain.CentsFromDollars(balance.Dollars().Div(factor)), nil
}
