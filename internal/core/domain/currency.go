package domain

// Currency is a supported currency code.
// The set of valid codes is closed: the internal ledger currency XUS plus the
// fiat currencies the wallet can quote against. New codes require a release.
type Currency string

const (
	// XUS is the internal ledger currency.
	XUS Currency = "XUS"

	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	CHF Currency = "CHF"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	NZD Currency = "NZD"
	JPY Currency = "JPY"
)

// CurrencyInfo carries display metadata for a currency code.
type CurrencyInfo struct {
	Code           Currency `json:"currencyCode"`
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	FractionDigits int32    `json:"fractionDigits"`
	IsFiat         bool     `json:"isFiat"`
}

// currencyRegistry is the closed enumeration. Order here drives list output.
var currencyRegistry = []CurrencyInfo{
	{Code: XUS, Symbol: "≋", Name: "XUS", FractionDigits: 6, IsFiat: false},
	{Code: USD, Symbol: "$", Name: "US Dollar", FractionDigits: 2, IsFiat: true},
	{Code: EUR, Symbol: "€", Name: "Euro", FractionDigits: 2, IsFiat: true},
	{Code: GBP, Symbol: "£", Name: "Pound Sterling", FractionDigits: 2, IsFiat: true},
	{Code: CHF, Symbol: "Fr", Name: "Swiss Franc", FractionDigits: 2, IsFiat: true},
	{Code: CAD, Symbol: "$", Name: "Canadian Dollar", FractionDigits: 2, IsFiat: true},
	{Code: AUD, Symbol: "$", Name: "Australian Dollar", FractionDigits: 2, IsFiat: true},
	{Code: NZD, Symbol: "$", Name: "New Zealand Dollar", FractionDigits: 2, IsFiat: true},
	{Code: JPY, Symbol: "¥", Name: "Japanese Yen", FractionDigits: 0, IsFiat: true},
}

var currencyIndex = func() map[Currency]CurrencyInfo {
	idx := make(map[Currency]CurrencyInfo, len(currencyRegistry))
	for _, info := range currencyRegistry {
		idx[info.Code] = info
	}
	return idx
}()

// Valid reports whether c belongs to the closed currency set.
func (c Currency) Valid() bool {
	_, ok := currencyIndex[c]
	return ok
}

// IsFiat reports whether c is a real-world government-issued currency.
func (c Currency) IsFiat() bool {
	return currencyIndex[c].IsFiat
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// CurrencyByCode looks up the metadata for a currency code.
// The second return value is false for codes outside the closed set.
func CurrencyByCode(code string) (CurrencyInfo, bool) {
	info, ok := currencyIndex[Currency(code)]
	return info, ok
}

// Currencies returns the full closed set, XUS first, fiat codes after.
func Currencies() []CurrencyInfo {
	out := make([]CurrencyInfo, len(currencyRegistry))
	copy(out, currencyRegistry)
	return out
}

// FiatCurrencies returns only the fiat members of the set.
func FiatCurrencies() []CurrencyInfo {
	out := make([]CurrencyInfo, 0, len(currencyRegistry)-1)
	for _, info := range currencyRegistry {
		if info.IsFiat {
			out = append(out, info)
		}
	}
	return out
}
