package domain

// CompanyInfo is the summary block shown on a ticker's quote page.
// PriceChange and PriceChangePercent are kept as displayed, the percent
// without its trailing sign.
type CompanyInfo struct {
	Name               string  `json:"name"`
	Exchange           string  `json:"exchange"`
	Industry           string  `json:"industry"`
	Image              string  `json:"image,omitempty"`
	Price              Decimal `json:"price"`
	PriceChange        string  `json:"priceChange"`
	PriceChangePercent string  `json:"priceChangePercent"`
}

