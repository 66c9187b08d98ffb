package models

// SystemTagCatalog is the fixed set of shared tags seeded once at startup.
var SystemTagCatalog = []string{
	// Priority & urgency
	"Urgent", "High Priority", "Low Priority", "Emergency",

	// Payment context
	"Cash Payment", "Online Payment", "Card Payment", "Mobile Payment", "Bank Transfer",

	// Location & context
	"Work", "Personal", "Home", "Office", "Travel", "Business Trip", "Vacation",

	// Time-based
	"Weekly", "Monthly", "Daily", "One-time", "Recurring", "Annual",

	// Financial
	"Tax Deductible", "Reimbursable", "Investment", "Savings", "Debt", "Loan",

	// Lifestyle
	"Health", "Fitness", "Education", "Entertainment", "Social", "Family",

	// Quality & type
	"Essential", "Optional", "Luxury", "Necessity", "Planned", "Unplanned",

	// Special occasions
	"Birthday", "Anniversary", "Holiday", "Gift", "Celebration", "Special Event",

	// Work-related
	"Business Expense", "Office Supplies", "Professional Development", "Networking",

	// Maintenance & services
	"Maintenance", "Repair", "Service", "Subscription", "Membership",

	// Food & dining
	"Fast Food", "Restaurant", "Groceries", "Takeout", "Dining Out",

	// Transportation
	"Public Transport", "Fuel", "Parking", "Taxi", "Ride Share",

	// Shopping
	"Online Shopping", "In-Store", "Bulk Purchase", "Sale", "Discount",
}
