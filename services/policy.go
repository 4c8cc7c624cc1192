package services

import "github.com/shopspring/decimal"

// Policy holds the fixed money rules of the deposit pipeline.
type Policy struct {
	FeePercent        decimal.Decimal // platform fee taken before credit
	ReferralThreshold decimal.Decimal // minimum gross deposit that settles a referral
	ReferralBonus     decimal.Decimal // paid once to the referrer
	NairaPerPoint     decimal.Decimal // loyalty points = floor(net / NairaPerPoint)
}

var DefaultPolicy = Policy{
	FeePercent:        decimal.NewFromInt(2),
	ReferralThreshold: decimal.NewFromInt(1000),
	ReferralBonus:     decimal.NewFromInt(100),
	NairaPerPoint:     decimal.NewFromInt(10),
}

var hundred = decimal.NewFromInt(100)

// SplitFee returns the fee and the net amount for a gross deposit. Values
// keep full precision; rounding happens only when formatting.
func (p Policy) SplitFee(gross decimal.Decimal) (fee, net decimal.Decimal) {
	fee = gross.Mul(p.FeePercent).Div(hundred)
	return fee, gross.Sub(fee)
}

// PointsFor returns the loyalty points earned for a net amount.
func (p Policy) PointsFor(net decimal.Decimal) int64 {
	if !net.IsPositive() || !p.NairaPerPoint.IsPositive() {
		return 0
	}
	return net.Div(p.NairaPerPoint).Floor().IntPart()
}

// QualifiesForReferral reports whether a gross deposit triggers settlement.
func (p Policy) QualifiesForReferral(gross decimal.Decimal) bool {
	return gross.GreaterThanOrEqual(p.ReferralThreshold)
}
