package domain

import "fmt"

// ProvinceCode is a two-letter province or territory code accepted by the
// PROV_STATE_TERR_CODE filter.
type ProvinceCode string

const (
	ProvinceAB ProvinceCode = "AB"
	ProvinceBC ProvinceCode = "BC"
	ProvinceMB ProvinceCode = "MB"
	ProvinceNB ProvinceCode = "NB"
	ProvinceNL ProvinceCode = "NL"
	ProvinceNS ProvinceCode = "NS"
	ProvinceNT ProvinceCode = "NT"
	ProvinceNU ProvinceCode = "NU"
	ProvinceON ProvinceCode = "ON"
	ProvincePE ProvinceCode = "PE"
	ProvinceQC ProvinceCode = "QC"
	ProvinceSK ProvinceCode = "SK"
	ProvinceYT ProvinceCode = "YT"
)

var provinceCodes = map[ProvinceCode]struct{}{
	ProvinceAB: {}, ProvinceBC: {}, ProvinceMB: {}, ProvinceNB: {},
	ProvinceNL: {}, ProvinceNS: {}, ProvinceNT: {}, ProvinceNU: {},
	ProvinceON: {}, ProvincePE: {}, ProvinceQC: {}, ProvinceSK: {},
	ProvinceYT: {},
}

// ParseProvinceCode validates and normalizes a province code string.
func ParseProvinceCode(s string) (ProvinceCode, error) {
	code := ProvinceCode(s)
	if _, ok := provinceCodes[code]; !ok {
		return "", &OpError{
			Op:   "province.parse",
			Kind: KindInvalidInput,
			Err:  fmt.Errorf("unknown province code %q", s),
		}
	}
	return code, nil
}
