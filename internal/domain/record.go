package domain

import "github.com/shopspring/decimal"

// YearRecord is an immutable snapshot of one simulated year. The engine
// creates a fresh record per iteration and never mutates it afterwards.
type YearRecord struct {
	Year                 int             `json:"year"`
	Age                  int             `json:"age"`
	Retired              bool            `json:"retired"`
	TotalBalance         Cents           `json:"totalBalance"`
	FederalTax           Cents           `json:"federalTax"`
	StateTax             Cents           `json:"stateTax"`
	FICATax              Cents           `json:"ficaTax"`
	RMDTotal             Cents           `json:"rmdTotal"`
	SocialSecurityIncome Cents           `json:"socialSecurityIncome"`
	OtherIncome          Cents           `json:"otherIncome"`
	TotalExpense         Cents           `json:"totalExpense"`
	RothConversion       Cents           `json:"rothConversion,omitempty"`
	QCDAmount            Cents           `json:"qcdAmount,omitempty"`
	HarvestedLoss        Cents           `json:"harvestedLoss,omitempty"`
	AccountBalances      map[string]Cents `json:"accountBalances"`
}

// ScenarioResult is the outcome of one randomized Monte Carlo run.
type ScenarioResult struct {
	Records      []YearRecord    `json:"records"`
	Success      bool            `json:"success"`
	FinalBalance Cents           `json:"finalBalance"`
	FinalAge     int             `json:"finalAge"`
	EquityReturn decimal.Decimal `json:"equityReturn"`
	BondReturn   decimal.Decimal `json:"bondReturn"`
}
