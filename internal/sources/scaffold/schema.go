package scaffold

// Config is the YAML file that seeds a brand-new content document
type Config struct {
	Hero          *HeroConfig       `yaml:"hero,omitempty"`
	Tabs          []TabConfig       `yaml:"tabs"`
	FeaturedOrder []string          `yaml:"featuredOrder,omitempty"`
	Settings      map[string]any    `yaml:"settings,omitempty"`
	LegalInfo     *LegalInfoConfig  `yaml:"legalInfo,omitempty"`
	SNSAccounts   []SNSConfig       `yaml:"snsAccounts,omitempty"`
	IOSApps       []string          `yaml:"iosApps,omitempty"` // App Store ids
	Extra         map[string]string `yaml:"extra,omitempty"`   // raw JSON per top-level key
}

// HeroConfig seeds the headline block
type HeroConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image,omitempty"`
}

// TabConfig is one tab of the public site
type TabConfig struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// LegalInfoConfig seeds the commercial-transactions disclosure
type LegalInfoConfig struct {
	BusinessName string `yaml:"businessName"`
	ContactEmail string `yaml:"contactEmail"`
	AddressInfo  string `yaml:"addressInfo"`
	ShippingInfo string `yaml:"shippingInfo"`
	ReturnPolicy string `yaml:"returnPolicy"`
}

// SNSConfig is a social account link
type SNSConfig struct {
	Platform string `yaml:"platform"`
	Title    string `yaml:"title"`
	URL      string `yaml:"url"`
}
