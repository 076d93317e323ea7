package domain

// Wizard steps, in fixed order.
const (
	StepWelcome = iota + 1
	StepBasics
	StepIdentity
	StepCategory
	StepLocation
	StepBanking
	StepBranding
	StepReview

	TotalSteps = StepReview
)

// StepInfo describes one wizard step for the onboarding UI.
type StepInfo struct {
	Step        int    `json:"step"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Steps returns the wizard layout.
func Steps() []StepInfo {
	return []StepInfo{
		{StepWelcome, "Welcome", "Get started with your store setup."},
		{StepBasics, "Store Basics", "Tell us the basics about your business."},
		{StepIdentity, "Identity", "We need to verify your identity."},
		{StepCategory, "Category", "What kind of products do you sell?"},
		{StepLocation, "Details", "Where is your store located."},
		{StepBanking, "Bank Info", "Where should we send your payouts?"},
		{StepBranding, "Branding", "Make your store look professional."},
		{StepReview, "Review", "Double check everything looks good."},
	}
}
