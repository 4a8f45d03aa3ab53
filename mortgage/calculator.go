package mortgage

import (
	"errors"
	"math"
)

var (
	// ErrInvalidPrice signals a non-positive home price.
	ErrInvalidPrice = errors.New("mortgage: home price must be positive")
	// ErrInvalidDownPayment signals a down payment outside [0, price).
	ErrInvalidDownPayment = errors.New("mortgage: down payment must be non-negative and below the home price")
	// ErrInvalidRate signals a negative annual interest rate.
	ErrInvalidRate = errors.New("mortgage: interest rate must be non-negative")
	// ErrInvalidTerm signals a non-positive loan term.
	ErrInvalidTerm = errors.New("mortgage: loan term must be positive")
)

// Terms are the inputs to a fixed-rate amortization. AnnualRate is a
// percentage (6.5 means 6.5%). Tax and insurance are annual amounts,
// HOA is already monthly.
type Terms struct {
	HomePrice       float64
	DownPayment     float64
	AnnualRate      float64
	TermYears       int
	AnnualTax       float64
	AnnualInsurance float64
	MonthlyHOA      float64
}

// Breakdown is the monthly payment breakdown and lifetime totals for a
// loan. MonthlyPayment is principal and interest only; TotalMonthly
// adds tax, insurance and HOA.
type Breakdown struct {
	MonthlyPayment   float64
	MonthlyTax       float64
	MonthlyInsurance float64
	MonthlyHOA       float64
	TotalMonthly     float64
	TotalInterest    float64
	TotalCost        float64
}

// Calculate derives the payment breakdown for the given terms. It is
// pure: no I/O, no state, same output for the same input.
func Calculate(t Terms) (Breakdown, error) {
	if t.HomePrice <= 0 {
		return Breakdown{}, ErrInvalidPrice
	}
	if t.DownPayment < 0 || t.DownPayment >= t.HomePrice {
		return Breakdown{}, ErrInvalidDownPayment
	}
	if t.AnnualRate < 0 {
		return Breakdown{}, ErrInvalidRate
	}
	if t.TermYears <= 0 {
		return Breakdown{}, ErrInvalidTerm
	}

	principal := t.HomePrice - t.DownPayment
	monthlyRate := t.AnnualRate / 100 / 12
	payments := float64(t.TermYears * 12)

	// The annuity formula is 0/0 at a zero rate; an interest-free loan
	// amortizes linearly.
	var monthly float64
	if monthlyRate == 0 {
		monthly = principal / payments
	} else {
		factor := math.Pow(1+monthlyRate, payments)
		monthly = principal * monthlyRate * factor / (factor - 1)
	}

	tax := t.AnnualTax / 12
	insurance := t.AnnualInsurance / 12
	totalMonthly := monthly + tax + insurance + t.MonthlyHOA

	return Breakdown{
		MonthlyPayment:   monthly,
		MonthlyTax:       tax,
		MonthlyInsurance: insurance,
		MonthlyHOA:       t.MonthlyHOA,
		TotalMonthly:     totalMonthly,
		TotalInterest:    monthly*payments - principal,
		TotalCost:        totalMonthly*payments + t.DownPayment,
	}, nil
}
