package game

type featureTemplate struct {
	ID             string
	Name           string
	Description    string
	Cost           float64
	Capacity       float64
	RevenuePerUser float64
	UserBonus      int64
	Prerequisites  []string
}

var featureCatalog = map[StartupType][]featureTemplate{
	StartupSaaS: {
		{ID: "auth", Name: "Authentication", Description: "User login system", Cost: 10, Capacity: 500, RevenuePerUser: 0.05, UserBonus: 50},
		{ID: "billing", Name: "Billing System", Description: "Recurring payments", Cost: 15, Capacity: 2000, RevenuePerUser: 0.10, UserBonus: 100, Prerequisites: []string{"auth"}},
		{ID: "analytics", Name: "Analytics", Description: "User insights dashboard", Cost: 12, Capacity: 1000, RevenuePerUser: 0.07, UserBonus: 75, Prerequisites: []string{"auth"}},
	},
	StartupGaming: {
		{ID: "core", Name: "Core Gameplay", Description: "Basic game mechanics", Cost: 12, Capacity: 1000, RevenuePerUser: 0.02, UserBonus: 100},
		{ID: "multiplayer", Name: "Multiplayer", Description: "Online play features", Cost: 18, Capacity: 3000, RevenuePerUser: 0.05, UserBonus: 200, Prerequisites: []string{"core"}},
		{ID: "store", Name: "In-Game Store", Description: "Microtransactions", Cost: 15, Capacity: 2000, RevenuePerUser: 0.08, UserBonus: 150, Prerequisites: []string{"core"}},
	},
	StartupFinTech: {
		{ID: "wallet", Name: "Digital Wallet", Description: "Basic payment system", Cost: 18, Capacity: 1000, RevenuePerUser: 0.08, UserBonus: 80},
		{ID: "invest", Name: "Investment Tools", Description: "Stock trading features", Cost: 24, Capacity: 2000, RevenuePerUser: 0.15, UserBonus: 120, Prerequisites: []string{"wallet"}},
	},
	StartupECommerce: {
		{ID: "catalog", Name: "Product Catalog", Description: "Inventory management", Cost: 10, Capacity: 800, RevenuePerUser: 0.04, UserBonus: 100},
		{ID: "checkout", Name: "Checkout Flow", Description: "Payment gateway integration", Cost: 15, Capacity: 1500, RevenuePerUser: 0.12, UserBonus: 50, Prerequisites: []string{"catalog"}},
	},
	StartupAIML: {
		{ID: "model", Name: "Base Model", Description: "Trained neural network", Cost: 20, Capacity: 200, RevenuePerUser: 0.20, UserBonus: 30},
		{ID: "api", Name: "Developer API", Description: "External accessibility", Cost: 15, Capacity: 1000, RevenuePerUser: 0.15, UserBonus: 100, Prerequisites: []string{"model"}},
	},
}

var channelCatalog = []MarketingChannel{
	{ID: "social", Name: "Social Media", Cost: 1000, Effectiveness: 1.2, Fatigue: 1.0},
	{ID: "seo", Name: "SEO", Cost: 5000, Effectiveness: 2.5, Fatigue: 1.0},
	{ID: "content", Name: "Content Marketing", Cost: 3000, Effectiveness: 1.8, Fatigue: 1.0},
	{ID: "paid", Name: "Paid Ads", Cost: 5000, Effectiveness: 3.0, Fatigue: 1.0},
}

type pathTerms struct {
	Cash   float64
	Equity float64
	Debt   float64
}

var startingTerms = map[StartingPath]pathTerms{
	PathBootstrap:   {Cash: 50_000, Equity: 100},
	PathAngel:       {Cash: 100_000, Equity: 85},
	PathVCPreSeed:   {Cash: 250_000, Equity: 70},
	PathBankLoan:    {Cash: 100_000, Equity: 100, Debt: 50_000},
	PathAccelerator: {Cash: 50_000, Equity: 93},
}

var HiringRoles = []HiringRole{
	{Role: "Junior Dev", Salary: 4000},
	{Role: "Senior Dev", Salary: 8000},
	{Role: "Designer", Salary: 6000},
	{Role: "Marketer", Salary: 5000},
}

var candidateNames = []string{"Alex", "Jordan", "Sam", "Casey", "Riley", "Taylor", "Morgan", "Blake"}

// HiringRoleByName looks up a preset role case-insensitively.
func HiringRoleByName(name string) (HiringRole, bool) {
	key := normalizeKey(name)
	for _, r := range HiringRoles {
		if normalizeKey(r.Role) == key {
			return r, true
		}
	}
	return HiringRole{}, false
}

func DefaultCatalog() Catalog {
	return Catalog{
		StartupTypes:  append([]StartupType(nil), StartupTypes...),
		StartingPaths: append([]StartingPath(nil), StartingPaths...),
		HiringRoles:   append([]HiringRole(nil), HiringRoles...),
	}
}
