package entitlement

import "github.com/magabrotheeeer/techvogue/internal/models"

// tierFeatures - возможности, которые добавляет каждый тариф поверх предыдущего.
// Итоговый набор тарифа - объединение всех тарифов не выше него.
var tierFeatures = map[models.Role]map[models.Plan][]string{
	models.RoleEntrepreneur: {
		models.PlanFree: {
			"basic_profile", "single_project", "basic_pitch_deck",
			"basic_search", "community_access", "basic_support",
		},
		models.PlanPro: {
			"unlimited_projects", "enhanced_visibility", "direct_messaging",
			"basic_analytics", "milestone_tracking", "pitch_templates",
			"video_pitch", "priority_support", "contact_export", "basic_legal_docs",
		},
		models.PlanPremium: {
			"featured_listing", "ai_matching", "advanced_analytics",
			"unlimited_messaging", "unlimited_milestones", "pitch_review",
			"legal_bundle", "priority_badge", "account_manager",
			"investor_events", "verification_badge", "custom_domain",
		},
	},
	models.RoleInvestor: {
		models.PlanFree: {
			"basic_browse", "limited_watchlist", "public_pitch_decks",
			"basic_search", "community_access",
		},
		models.PlanPro: {
			"advanced_filters", "unlimited_saves", "portfolio_tracking",
			"deal_alerts", "direct_messaging", "financial_data",
			"investment_history", "data_export", "comparison_tool", "priority_support",
		},
		models.PlanPremium: {
			"priority_access", "ai_recommendations", "due_diligence",
			"unlimited_messaging", "verified_badge", "direct_calls",
			"market_reports", "syndicate_access", "exclusive_events",
			"api_access", "relationship_manager",
		},
	},
	models.RoleFreelancer: {
		models.PlanFree: {
			"basic_profile", "limited_portfolio", "limited_applications",
			"basic_search", "hourly_rate",
		},
		models.PlanPro: {
			"unlimited_applications", "unlimited_portfolio", "verified_badge",
			"search_priority", "skill_tests", "testimonials",
			"project_tools", "enhanced_profile", "premium_projects", "analytics",
		},
		models.PlanPremium: {
			"featured_listing", "ai_matching", "exclusive_projects",
			"contract_templates", "escrow_protection", "dedicated_support",
			"branding_consultation", "early_access", "portfolio_website",
			"advanced_analytics", "priority_badge",
		},
	},
}
