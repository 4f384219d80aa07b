package market

// Stock is a listed, tradable symbol.
type Stock struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog is the fixed set of listed symbols, in display order.
var Catalog = []Stock{
	{Symbol: "AAPL", Name: "Apple Inc.", Description: "Technology company known for iPhone, Mac, and services."},
	{Symbol: "TSLA", Name: "Tesla Inc.", Description: "Electric vehicle and clean energy company."},
	{Symbol: "MSFT", Name: "Microsoft Corp.", Description: "Cloud computing, Windows, Office, and Xbox."},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Description: "Google Search, YouTube, and Google Cloud."},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Description: "E-commerce, AWS cloud, and Prime Video."},
	{Symbol: "META", Name: "Meta Platforms", Description: "Facebook, Instagram, WhatsApp, and Reality Labs."},
	{Symbol: "NVDA", Name: "NVIDIA Corp.", Description: "GPUs, AI chips, and data center hardware."},
	{Symbol: "NFLX", Name: "Netflix Inc.", Description: "Global streaming entertainment service."},
	{Symbol: "AMD", Name: "Advanced Micro Devices", Description: "CPUs, GPUs, and semiconductor solutions."},
	{Symbol: "INTC", Name: "Intel Corp.", Description: "Semiconductor chips, processors, and networking."},
	{Symbol: "BABA", Name: "Alibaba Group", Description: "Chinese e-commerce, cloud, and fintech."},
	{Symbol: "DIS", Name: "The Walt Disney Co.", Description: "Media, theme parks, Disney+, and ESPN."},
	{Symbol: "UBER", Name: "Uber Technologies", Description: "Ride-hailing, food delivery, and freight."},
	{Symbol: "SPOT", Name: "Spotify Technology", Description: "Music and podcast streaming platform."},
	{Symbol: "PYPL", Name: "PayPal Holdings", Description: "Online payments, Venmo, and digital wallets."},
	{Symbol: "SHOP", Name: "Shopify Inc.", Description: "E-commerce platform for merchants worldwide."},
	{Symbol: "COIN", Name: "Coinbase Global", Description: "Cryptocurrency exchange and wallet services."},
	{Symbol: "SNAP", Name: "Snap Inc.", Description: "Snapchat social media and AR technology."},
	{Symbol: "PLTR", Name: "Palantir Technologies", Description: "AI-powered data analytics for enterprise and government."},
	{Symbol: "RIVN", Name: "Rivian Automotive", Description: "Electric trucks, vans, and adventure vehicles."},
}

var catalogIndex = func() map[string]Stock {
	m := make(map[string]Stock, len(Catalog))
	for _, s := range Catalog {
		m[s.Symbol] = s
	}
	return m
}()

// Lookup returns the listed stock for symbol.
func Lookup(symbol string) (Stock, bool) {
	s, ok := catalogIndex[symbol]
	return s, ok
}

// Listed reports whether symbol is tradable.
func Listed(symbol string) bool {
	_, ok := catalogIndex[symbol]
	return ok
}

// Symbols returns all listed symbols in catalog order.
func Symbols() []string {
	out := make([]string, len(Catalog))
	for i, s := range Catalog {
		out[i] = s.Symbol
	}
	return out
}
