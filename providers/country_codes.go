package providers

import (
	"strings"

	"github.com/pariz/gountries"
)

var countryCodeQuery = gountries.New()

// countryName returns a common English name of the country by its
// 2-letter ISO3166 code. Unknown codes have no name.
func countryName(alpha2 string) string {
	if len(alpha2) != 2 {
		return ""
	}

	country, err := countryCodeQuery.FindCountryByAlpha(strings.ToUpper(alpha2))
	if err != nil {
		return ""
	}

	return country.Name.BaseLang.Common
}
