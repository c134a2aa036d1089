package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

// CreateAdvanceRequest represents a request to create an advance.
type CreateAdvanceRequest struct {
	PartyID              string `json:"party_id"                validate:"required,max=64"`
	OrganizationID       string `json:"organization_id"         validate:"max=64"`
	Date                 string `json:"date"                    validate:"omitempty,datetime=2006-01-02"`
	ExpectedDate         string `json:"expected_date"           validate:"omitempty,datetime=2006-01-02"`
	Amount               string `json:"amount"                  validate:"required,numeric"`
	InterestRatePerMonth string `json:"interest_rate_per_month" validate:"omitempty,numeric"`
	ExpectedBags         string `json:"expected_bags"           validate:"required,numeric"`
	PerBagRate           string `json:"per_bag_rate"            validate:"omitempty,numeric"`
	AdvanceNo            int64  `json:"advance_no"              validate:"gte=0"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAdvanceRequest) ToUseCaseInput() (usecase.CreateAdvanceInput, error) {
	var in usecase.CreateAdvanceInput
	if err := Validate(r); err != nil {
		return in, err
	}

	var err error
	if in.Amount, err = ParseAmount("amount", r.Amount); err != nil {
		return in, err
	}
	if in.InterestRatePerMonth, err = ParseDecimal("interest_rate_per_month", r.InterestRatePerMonth); err != nil {
		return in, err
	}
	if in.ExpectedBags, err = ParseDecimal("expected_bags", r.ExpectedBags); err != nil {
		return in, err
	}
	if in.PerBagRate, err = ParseOptionalDecimal("per_bag_rate", r.PerBagRate); err != nil {
		return in, err
	}
	if in.Date, err = ParseDate("date", r.Date); err != nil {
		return in, err
	}
	if in.ExpectedDate, err = ParseDate("expected_date", r.ExpectedDate); err != nil {
		return in, err
	}

	in.PartyID = r.PartyID
	in.OrganizationID = r.OrganizationID
	in.AdvanceNo = r.AdvanceNo
	return in, nil
}

// ConvertAdvanceRequest represents a request to convert an advance into a loan.
type ConvertAdvanceRequest struct {
	AmadID     string `json:"amad_id"      validate:"required,max=64"`
	Date       string `json:"date"         validate:"omitempty,datetime=2006-01-02"`
	PerBagRate string `json:"per_bag_rate" validate:"omitempty,numeric"`
	LoanNo     int64  `json:"loan_no"      validate:"gte=0"`
}

// ToUseCaseInput converts to use case input.
func (r *ConvertAdvanceRequest) ToUseCaseInput(advanceID string) (usecase.ConvertAdvanceInput, error) {
	in := usecase.ConvertAdvanceInput{AdvanceID: advanceID, AmadID: r.AmadID, LoanNo: r.LoanNo}
	if err := Validate(r); err != nil {
		return in, err
	}

	var err error
	if in.PerBagRate, err = ParseOptionalDecimal("per_bag_rate", r.PerBagRate); err != nil {
		return in, err
	}
	in.Date, err = ParseDate("date", r.Date)
	return in, err
}

// AdjustAdvanceRequest represents a request to fold an advance into a loan.
type AdjustAdvanceRequest struct {
	LoanID     string `json:"loan_id"      validate:"required,max=64"`
	Date       string `json:"date"         validate:"omitempty,datetime=2006-01-02"`
	PerBagRate string `json:"per_bag_rate" validate:"omitempty,numeric"`
}

// ToUseCaseInput converts to use case input.
func (r *AdjustAdvanceRequest) ToUseCaseInput(advanceID string) (usecase.AdjustAdvanceInput, error) {
	in := usecase.AdjustAdvanceInput{AdvanceID: advanceID, LoanID: r.LoanID}
	if err := Validate(r); err != nil {
		return in, err
	}

	var err error
	if in.PerBagRate, err = ParseOptionalDecimal("per_bag_rate", r.PerBagRate); err != nil {
		return in, err
	}
	in.Date, err = ParseDate("date", r.Date)
	return in, err
}

// DisburseLoanRequest represents a request to disburse a loan against collateral.
type DisburseLoanRequest struct {
	PartyID              string `json:"party_id"                validate:"required,max=64"`
	OrganizationID       string `json:"organization_id"         validate:"max=64"`
	AmadID               string `json:"amad_id"                 validate:"required,max=64"`
	Date                 string `json:"date"                    validate:"omitempty,datetime=2006-01-02"`
	Amount               string `json:"amount"                  validate:"required,numeric"`
	InterestRatePerMonth string `json:"interest_rate_per_month" validate:"omitempty,numeric"`
	PerBagRate           string `json:"per_bag_rate"            validate:"omitempty,numeric"`
	Narration            string `json:"narration"               validate:"max=255"`
	LoanNo               int64  `json:"loan_no"                 validate:"gte=0"`
}

// ToUseCaseInput converts to use case input.
func (r *DisburseLoanRequest) ToUseCaseInput() (usecase.DisburseLoanInput, error) {
	in := usecase.DisburseLoanInput{
		PartyID:        r.PartyID,
		OrganizationID: r.OrganizationID,
		AmadID:         r.AmadID,
		Narration:      r.Narration,
		LoanNo:         r.LoanNo,
	}
	if err := Validate(r); err != nil {
		return in, err
	}

	var err error
	if in.Amount, err = ParseAmount("amount", r.Amount); err != nil {
		return in, err
	}
	if in.InterestRatePerMonth, err = ParseDecimal("interest_rate_per_month", r.InterestRatePerMonth); err != nil {
		return in, err
	}
	if in.PerBagRate, err = ParseOptionalDecimal("per_bag_rate", r.PerBagRate); err != nil {
		return in, err
	}
	in.Date, err = ParseDate("date", r.Date)
	return in, err
}

// RepaymentRequest represents a repayment against a loan.
type RepaymentRequest struct {
	Amount    string `json:"amount"    validate:"required,numeric"`
	Date      string `json:"date"      validate:"omitempty,datetime=2006-01-02"`
	Narration string `json:"narration" validate:"max=255"`
}

// ToUseCaseInput converts to use case input.
func (r *RepaymentRequest) ToUseCaseInput(loanID string) (usecase.RepaymentInput, error) {
	in := usecase.RepaymentInput{LoanID: loanID, Narration: r.Narration}
	if err := Validate(r); err != nil {
		return in, err
	}

	var err error
	if in.Amount, err = ParseAmount("amount", r.Amount); err != nil {
		return in, err
	}
	in.Date, err = ParseDate("date", r.Date)
	return in, err
}

// ToInterestRepayment converts to a repayment of the party's posted interest.
func (r *RepaymentRequest) ToInterestRepayment(partyID string) (usecase.InterestRepaymentInput, error) {
	in := usecase.InterestRepaymentInput{PartyID: partyID, Narration: r.Narration}
	if err := Validate(r); err != nil {
		return in, err
	}

	var err error
	if in.Amount, err = ParseAmount("amount", r.Amount); err != nil {
		return in, err
	}
	in.Date, err = ParseDate("date", r.Date)
	return in, err
}

// CloseLoanRequest represents a request to close a loan.
type CloseLoanRequest struct {
	Force bool `json:"force"`
}

// MarkOverdueRequest represents a request to run the overdue pass.
type MarkOverdueRequest struct {
	OrganizationID string `json:"organization_id" validate:"required,max=64"`
	AsOf           string `json:"as_of"           validate:"omitempty,datetime=2006-01-02"`
}

// AsOfDate returns the parsed as-of date, zero when omitted.
func (r *MarkOverdueRequest) AsOfDate() (time.Time, error) {
	if err := Validate(r); err != nil {
		return time.Time{}, err
	}
	return ParseDate("as_of", r.AsOf)
}

// PostInterestRequest represents a request to post interest for a window.
type PostInterestRequest struct {
	OrganizationID string `json:"organization_id" validate:"required,max=64"`
	From           string `json:"from"            validate:"required,datetime=2006-01-02"`
	To             string `json:"to"              validate:"required,datetime=2006-01-02"`
	Rate           string `json:"rate"            validate:"required,numeric"`
	PostDate       string `json:"post_date"       validate:"omitempty,datetime=2006-01-02"`
}

// ToPeriod converts the request to an interest window and a posting date.
func (r *PostInterestRequest) ToPeriod() (usecase.PeriodInput, time.Time, error) {
	if err := Validate(r); err != nil {
		return usecase.PeriodInput{}, time.Time{}, err
	}
	period, err := ParsePeriod(r.From, r.To, r.Rate)
	if err != nil {
		return period, time.Time{}, err
	}
	postDate, err := ParseDate("post_date", r.PostDate)
	return period, postDate, err
}

// ParsePeriod builds an interest window from its wire form. An empty rate is zero.
func ParsePeriod(from, to, rate string) (usecase.PeriodInput, error) {
	var period usecase.PeriodInput
	if from == "" || to == "" {
		return period, fmt.Errorf("%w: from and to are required", ErrInvalidRequest)
	}

	var err error
	if period.From, err = ParseDate("from", from); err != nil {
		return period, err
	}
	if period.To, err = ParseDate("to", to); err != nil {
		return period, err
	}
	if strings.TrimSpace(rate) == "" {
		return period, nil
	}
	// A negative rate is accepted and accrues nothing.
	if period.RatePerMonth, err = decimal.NewFromString(strings.TrimSpace(rate)); err != nil {
		return period, fmt.Errorf("%w: rate must be a number", domain.ErrInvalidAmount)
	}
	return period, nil
}
