package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"luxestate/mortgage"
)

type calculateRequest struct {
	HomePrice       float64 `json:"homePrice"`
	DownPayment     float64 `json:"downPayment"`
	AnnualRate      float64 `json:"annualRate"`
	TermYears       int     `json:"termYears"`
	AnnualTax       float64 `json:"annualTax"`
	AnnualInsurance float64 `json:"annualInsurance"`
	MonthlyHOA      float64 `json:"monthlyHoa"`
}

type calculateResponse struct {
	MonthlyPayment   float64 `json:"monthlyPayment"`
	MonthlyTax       float64 `json:"monthlyTax"`
	MonthlyInsurance float64 `json:"monthlyInsurance"`
	MonthlyHOA       float64 `json:"monthlyHoa"`
	TotalMonthly     float64 `json:"totalMonthly"`
	TotalInterest    float64 `json:"totalInterest"`
	TotalCost        float64 `json:"totalCost"`
}

func (s *Server) handleCalculateMortgage(c echo.Context) error {
	var req calculateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	breakdown, err := mortgage.Calculate(mortgage.Terms{
		HomePrice:       req.HomePrice,
		DownPayment:     req.DownPayment,
		AnnualRate:      req.AnnualRate,
		TermYears:       req.TermYears,
		AnnualTax:       req.AnnualTax,
		AnnualInsurance: req.AnnualInsurance,
		MonthlyHOA:      req.MonthlyHOA,
	})
	if err != nil {
		if errors.Is(err, mortgage.ErrInvalidPrice) ||
			errors.Is(err, mortgage.ErrInvalidDownPayment) ||
			errors.Is(err, mortgage.ErrInvalidRate) ||
			errors.Is(err, mortgage.ErrInvalidTerm) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to calculate"})
	}

	return c.JSON(http.StatusOK, calculateResponse{
		MonthlyPayment:   breakdown.MonthlyPayment,
		MonthlyTax:       breakdown.MonthlyTax,
		MonthlyInsurance: breakdown.MonthlyInsurance,
		MonthlyHOA:       breakdown.MonthlyHOA,
		TotalMonthly:     breakdown.TotalMonthly,
		TotalInterest:    breakdown.TotalInterest,
		TotalCost:        breakdown.TotalCost,
	})
}
