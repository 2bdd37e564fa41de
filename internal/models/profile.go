package models

// VerificationResult - ответ реестра компаний на запрос верификации.
type VerificationResult struct {
	Status           string `json:"status"` // verified или pending
	CompanyName      string `json:"companyName,omitempty"`
	RegistrationDate string `json:"registrationDate,omitempty"`
}

// Verified сообщает, подтверждена ли компания.
func (v *VerificationResult) Verified() bool {
	return v != nil && v.Status == VerificationVerified
}

const (
	VerificationVerified = "verified"
	VerificationPending  = "pending"
)

// EntrepreneurProfile - профиль стартапа. Ключ - UserID.
type EntrepreneurProfile struct {
	UserID       string              `json:"userId" validate:"required"`
	StartupName  string              `json:"startupName" validate:"required"`
	Domain       string              `json:"domain" validate:"required"`
	IdeaSummary  string              `json:"ideaSummary,omitempty"`
	CIN          string              `json:"cin,omitempty" validate:"omitempty,max=21"`
	Verification *VerificationResult `json:"mcaVerification,omitempty"`
}

// InvestorProfile - профиль инвестора.
type InvestorProfile struct {
	UserID     string   `json:"userId" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Firm       string   `json:"firm,omitempty"`
	FocusAreas []string `json:"focusAreas,omitempty"`
	TicketSize int      `json:"ticketSize,omitempty" validate:"gte=0"`
}

// FreelancerProfile - профиль фрилансера.
type FreelancerProfile struct {
	UserID       string   `json:"userId" validate:"required"`
	Headline     string   `json:"headline" validate:"required"`
	Skills       []string `json:"skills" validate:"required,min=1,dive,required"`
	HourlyRate   int      `json:"hourlyRate,omitempty" validate:"gte=0"`
	PortfolioURL string   `json:"portfolioUrl,omitempty" validate:"omitempty,url"`
}
