package report

// Comparison diffs two independent wallet analyses. Both inputs are
// immutable, so the diff needs no locking and no copies.
type Comparison struct {
	AddressA string `json:"address_a"`
	AddressB string `json:"address_b"`

	ScoreA int `json:"score_a"`
	ScoreB int `json:"score_b"`

	// MorePrivate is the address with the lower surveillance score;
	// empty on an exact tie.
	MorePrivate string `json:"more_private"`
	ScoreDelta  int    `json:"score_delta"` // absolute difference

	DegenDelta int    `json:"degen_delta"`
	MistakesA  int    `json:"mistakes_a"`
	MistakesB  int    `json:"mistakes_b"`
	RiskLevelA string `json:"risk_level_a"`
	RiskLevelB string `json:"risk_level_b"`
}

// Compare diffs two analyses.
func Compare(a, b *WalletAnalysis) Comparison {
	c := Comparison{
		AddressA:   a.Address,
		AddressB:   b.Address,
		ScoreA:     a.SurveillanceScore,
		ScoreB:     b.SurveillanceScore,
		ScoreDelta: abs(a.SurveillanceScore - b.SurveillanceScore),
		DegenDelta: abs(a.DegenScore - b.DegenScore),
		MistakesA:  len(a.PrivacyMistakes),
		MistakesB:  len(b.PrivacyMistakes),
		RiskLevelA: string(a.RiskLevel),
		RiskLevelB: string(b.RiskLevel),
	}
	switch {
	case a.SurveillanceScore < b.SurveillanceScore:
		c.MorePrivate = a.Address
	case b.SurveillanceScore < a.SurveillanceScore:
		c.MorePrivate = b.Address
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
