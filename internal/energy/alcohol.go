package energy

import "github.com/ciquab/nomutore/internal/model"

const (
	ethanolDensityGPerML = 0.8
	ethanolKcalPerGram   = 7.0
	carbKcalPerGram      = 4.0
)

const (
	CustomTypeDry       = "dry"
	CustomTypeFermented = "fermented"

	fermentedCarbsPer100ML = 3.5
)

// styleCarbs maps a beer style to its carbohydrate density in g/100ml.
var styleCarbs = map[string]float64{
	"lager":    3.0,
	"pilsner":  3.2,
	"paleale":  3.8,
	"ipa":      4.0,
	"wheat":    3.6,
	"stout":    4.2,
	"sour":     3.0,
	"fruit":    4.5,
	"lowcarb":  0.9,
	"highball": 0.0,
}

// sizeML maps a volume-class key to milliliters per unit.
var sizeML = map[string]float64{
	"can350":       350,
	"can500":       500,
	"small_bottle": 334,
	"large_bottle": 633,
	"glass":        250,
	"pint":         473,
	"mug":          435,
	"pitcher":      1500,
}

func StyleCarbsPer100ML(style string) (float64, bool) {
	c, ok := styleCarbs[style]
	return c, ok
}

func SizeToML(size string) (float64, bool) {
	ml, ok := sizeML[size]
	return ml, ok
}

func StyleKeys() []string {
	keys := make([]string, 0, len(styleCarbs))
	for k := range styleCarbs {
		keys = append(keys, k)
	}
	return keys
}

func SizeKeys() []string {
	keys := make([]string, 0, len(sizeML))
	for k := range sizeML {
		keys = append(keys, k)
	}
	return keys
}

// AlcoholCalories returns the kcal content of a single serving:
// ethanol mass times 7 kcal/g plus the carbohydrate term. Always >= 0.
func AlcoholCalories(ml, abv, carbPer100ML float64) float64 {
	ethanolGrams := ml * (abv / 100) * ethanolDensityGPerML
	ethanolKcal := ethanolGrams * ethanolKcalPerGram
	carbKcal := (ml / 100) * carbPer100ML * carbKcalPerGram
	return ethanolKcal + carbKcal
}

// BeerDebit is the negated alcohol kcal scaled by the serving count.
func BeerDebit(ml, abv, carbPer100ML float64, count int) float64 {
	if count < 1 {
		count = 1
	}
	return -AlcoholCalories(ml, abv, carbPer100ML) * float64(count)
}

// CarbsForLog resolves the carb density for a beer log. Custom dry
// drinks (spirits) carry no carbs; custom fermented drinks use a fixed
// density. Unknown styles fall back to lager.
func CarbsForLog(l model.LogRecord) float64 {
	if l.IsCustom {
		if l.CustomType == CustomTypeDry {
			return 0
		}
		return fermentedCarbsPer100ML
	}
	if c, ok := styleCarbs[l.Style]; ok {
		return c
	}
	return styleCarbs["lager"]
}

// VolumeForLog resolves the per-unit volume in ml for a beer log.
func VolumeForLog(l model.LogRecord) float64 {
	if l.IsCustom {
		return l.RawAmountML
	}
	if ml, ok := sizeML[l.Size]; ok {
		return ml
	}
	return 0
}
