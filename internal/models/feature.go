package models

// FeatureDescriptor - статическое описание возможности продукта и минимального тарифа для неё.
// Не изменяется во время работы.
type FeatureDescriptor struct {
	Name                 string `json:"name"`
	RequiresSubscription bool   `json:"requiresSubscription"`
	MinimumPlan          Plan   `json:"minimumPlan"`
	UserType             Role   `json:"userType"`
}

// Features - каталог возможностей, проверяемых интерфейсом, по ключу каталога.
var Features = map[string]FeatureDescriptor{
	// Предприниматель
	"CREATE_UNLIMITED_PROJECTS": {Name: "unlimited_projects", RequiresSubscription: true, MinimumPlan: PlanPro, UserType: RoleEntrepreneur},
	"UPLOAD_VIDEO_PITCH":        {Name: "video_pitch", RequiresSubscription: true, MinimumPlan: PlanPro, UserType: RoleEntrepreneur},
	"ACCESS_AI_MATCHING":        {Name: "ai_matching", RequiresSubscription: true, MinimumPlan: PlanPremium, UserType: RoleEntrepreneur},

	// Инвестор
	"VIEW_FINANCIAL_DATA":  {Name: "financial_data", RequiresSubscription: true, MinimumPlan: PlanPro, UserType: RoleInvestor},
	"ACCESS_DUE_DILIGENCE": {Name: "due_diligence", RequiresSubscription: true, MinimumPlan: PlanPremium, UserType: RoleInvestor},
	"USE_COMPARISON_TOOL":  {Name: "comparison_tool", RequiresSubscription: true, MinimumPlan: PlanPro, UserType: RoleInvestor},

	// Фрилансер
	"APPLY_UNLIMITED_PROJECTS":  {Name: "unlimited_applications", RequiresSubscription: true, MinimumPlan: PlanPro, UserType: RoleFreelancer},
	"ACCESS_EXCLUSIVE_PROJECTS": {Name: "exclusive_projects", RequiresSubscription: true, MinimumPlan: PlanPremium, UserType: RoleFreelancer},
	"USE_ESCROW_PROTECTION":     {Name: "escrow_protection", RequiresSubscription: true, MinimumPlan: PlanPremium, UserType: RoleFreelancer},
}

// FeatureByKey ищет возможность в каталоге.
func FeatureByKey(key string) (FeatureDescriptor, bool) {
	f, ok := Features[key]
	return f, ok
}
