package classify

// DefaultKeywords returns the built-in review topic table.
func DefaultKeywords() KeywordTable {
	return KeywordTable{
		// network & performance
		"bandwidth":   {"bandwidth", "throughput", "capacity", "congestion", "data cap", "cap"},
		"reliability": {"reliability", "reliable", "uptime", "outage", "crash", "disconnect", "drop", "packet loss", "stability"},
		"latency":     {"latency", "ping", "delay", "lag", "jitter", "response time"},
		"coverage":    {"coverage", "signal", "bars", "dead zone", "5g", "lte"},
		"speed":       {"speed", "download", "upload", "fast", "slow"},

		// plans & billing
		"billing":     {"bill", "billing", "charged", "charge", "fee", "fees", "price", "pricing"},
		"promotion":   {"promo", "promotion", "trade-in", "trade in", "discount", "deal"},
		"plan_change": {"plan", "plan change", "add a line", "upgrade plan", "downgrade"},

		// device & services
		"upgrade":       {"upgrade", "new phone", "swap", "trade-in"},
		"repair":        {"repair", "replacement", "fix", "warranty", "broken", "screen"},
		"accessories":   {"case", "charger", "screen protector", "accessory", "accessories"},
		"hotspot":       {"hotspot", "tether"},
		"esim":          {"esim", "e-sim"},
		"wifi_calling":  {"wifi calling", "wi-fi calling", "wificalling"},
		"spam_blocking": {"spam", "blocking", "scam shield"},

		// store logistics & CX
		"inventory":        {"stock", "in stock", "out of stock", "inventory"},
		"parking":          {"parking", "lot", "garage", "valet"},
		"customer_service": {"staff", "rep", "representative", "helpful", "rude", "attitude", "polite", "knowledgeable"},
		"communication":    {"communication", "explain", "explained", "clarity", "confusing", "confusion", "told", "said"},
		"checkout":         {"checkout", "register", "pos", "point of sale", "ring up"},

		// catch-all
		"experience": {"experience", "overall", "visit", "store"},
	}
}

// BrandCategories returns the built-in table used to sort social posts
// into brand categories.
func BrandCategories() KeywordTable {
	return KeywordTable{
		"tmobile": {
			"tmobile", "t-mobile", "t mobile", "tmobileus", "tmo", "tmob",
			"team magenta", "uncarrier", "t mobile coverage",
		},
		"tmobile_tuesday": {
			"tmobile tuesday", "t-mobile tuesday", "t mobile tuesday",
			"tuesday deal", "tuesday rewards", "tuesday freebie", "tuesday promo",
		},
		"tmobile_plans": {
			"magenta max", "magenta plan", "essentials plan", "go5g", "go5g next", "go5g plus",
			"simple choice", "one plan", "unlimited plan", "family plan", "5g plan", "prepaid plan",
			"postpaid plan", "switch to tmobile", "tmobile upgrade",
		},
		"tmobile_products": {
			"tmobile home internet", "home internet", "internet gateway", "5g home internet",
			"tmobile money", "tmobile travel", "tmobile syncup", "tmobile hotspot",
			"tmobile coverage map", "international pass", "roaming", "tmobile business",
			"tmobile enterprise", "tmobile phone", "tmobile sim", "tmobile esim",
			"tmobile store", "tmobile support", "tmobile app",
		},
		"tmobile_devices": {
			"iphone 15", "iphone 14", "samsung galaxy", "pixel 8", "tmobile trade in",
			"tmobile upgrade deal", "tmobile discount", "tmobile bundle",
			"tmobile free phone", "tmobile watch plan", "tmobile tablet plan",
		},
	}
}

// DefaultSearchTerms are the queries the collector issues when none are
// configured.
func DefaultSearchTerms() []string {
	return []string{"tmobile", "t-mobile", "t mobile", "tmobile tuesday", "tmo"}
}
