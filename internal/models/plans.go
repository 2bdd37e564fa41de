package models

// PlanPrice - цена тарифа в рупиях за месяц и за год.
type PlanPrice struct {
	Plan        Plan `json:"plan"`
	Monthly     int  `json:"price"`
	Yearly      int  `json:"yearlyPrice"`
	IsPaid      bool `json:"isPaid"`
	YearlySaves int  `json:"yearlySavesPercent"`
}

var planPrices = map[Role][]PlanPrice{
	RoleEntrepreneur: {
		{Plan: PlanFree},
		{Plan: PlanPro, Monthly: 999, Yearly: 9990},
		{Plan: PlanPremium, Monthly: 2999, Yearly: 29990},
	},
	RoleInvestor: {
		{Plan: PlanFree},
		{Plan: PlanPro, Monthly: 1999, Yearly: 19990},
		{Plan: PlanPremium, Monthly: 4999, Yearly: 49990},
	},
	RoleFreelancer: {
		{Plan: PlanFree},
		{Plan: PlanPro, Monthly: 499, Yearly: 4990},
		{Plan: PlanPremium, Monthly: 1499, Yearly: 14990},
	},
}

// PricesFor возвращает прайс-лист тарифов для роли. Для неизвестной роли - nil.
func PricesFor(role Role) []PlanPrice {
	src := planPrices[role]
	out := make([]PlanPrice, 0, len(src))
	for _, p := range src {
		p.IsPaid = p.Monthly > 0
		if p.IsPaid {
			p.YearlySaves = 100 - p.Yearly*100/(p.Monthly*12)
		}
		out = append(out, p)
	}
	return out
}
