package mortgage

import (
	"errors"
	"math"
	"testing"
)

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.4f want %.4f (tolerance %.4f)", name, got, want, tol)
	}
}

func TestCalculate_StandardLoan(t *testing.T) {
	b, err := Calculate(Terms{
		HomePrice:       500000,
		DownPayment:     100000,
		AnnualRate:      6.5,
		TermYears:       30,
		AnnualTax:       5000,
		AnnualInsurance: 1200,
		MonthlyHOA:      0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	approx(t, "monthly payment", b.MonthlyPayment, 2528.27, 0.01)
	approx(t, "monthly tax", b.MonthlyTax, 416.67, 0.01)
	approx(t, "monthly insurance", b.MonthlyInsurance, 100, 0.01)
	approx(t, "monthly hoa", b.MonthlyHOA, 0, 0.001)
	approx(t, "total monthly", b.TotalMonthly, 3044.94, 0.01)
	approx(t, "total interest", b.TotalInterest, 510177.95, 0.5)
	approx(t, "total cost", b.TotalCost, 1196177.95, 0.5)
}

func TestCalculate_ZeroRate(t *testing.T) {
	b, err := Calculate(Terms{
		HomePrice:   300000,
		DownPayment: 0,
		AnnualRate:  0,
		TermYears:   30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 300000 over 360 payments with no interest.
	approx(t, "monthly payment", b.MonthlyPayment, 833.33, 0.01)
	approx(t, "total interest", b.TotalInterest, 0, 0.01)
	if math.IsNaN(b.MonthlyPayment) || math.IsInf(b.MonthlyPayment, 0) {
		t.Fatalf("zero-rate payment is not finite: %v", b.MonthlyPayment)
	}
}

func TestCalculate_HOAIncluded(t *testing.T) {
	b, err := Calculate(Terms{
		HomePrice:  400000,
		AnnualRate: 5,
		TermYears:  15,
		MonthlyHOA: 250,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, "total monthly", b.TotalMonthly, b.MonthlyPayment+250, 0.001)
}

func TestCalculate_Deterministic(t *testing.T) {
	terms := Terms{HomePrice: 750000, DownPayment: 150000, AnnualRate: 7.1, TermYears: 20, AnnualTax: 8000, AnnualInsurance: 2000, MonthlyHOA: 120}
	first, err := Calculate(terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Calculate(terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("same terms produced different breakdowns: %+v vs %+v", first, second)
	}
}

func TestCalculate_Validation(t *testing.T) {
	cases := []struct {
		name  string
		terms Terms
		want  error
	}{
		{"zero price", Terms{HomePrice: 0, TermYears: 30}, ErrInvalidPrice},
		{"down payment equals price", Terms{HomePrice: 300000, DownPayment: 300000, TermYears: 30}, ErrInvalidDownPayment},
		{"down payment above price", Terms{HomePrice: 300000, DownPayment: 350000, TermYears: 30}, ErrInvalidDownPayment},
		{"negative down payment", Terms{HomePrice: 300000, DownPayment: -1, TermYears: 30}, ErrInvalidDownPayment},
		{"negative rate", Terms{HomePrice: 300000, AnnualRate: -0.5, TermYears: 30}, ErrInvalidRate},
		{"zero term", Terms{HomePrice: 300000, AnnualRate: 5, TermYears: 0}, ErrInvalidTerm},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Calculate(tc.terms); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
