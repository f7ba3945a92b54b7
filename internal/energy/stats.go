package energy

import (
	"sort"
	"strings"
	"time"

	"github.com/ciquab/nomutore/internal/model"
)

const unknownBrandPart = "Unknown"

type BrandStat struct {
	Brewery   string
	Brand     string
	Count     int
	TotalML   float64
	AvgRating float64
	LastDrank time.Time
}

type StyleCount struct {
	Style string
	Count int
}

type BeerStats struct {
	Brands []BrandStat
	Styles []StyleCount
}

// ComputeBeerStats aggregates beer logs per brewery+brand and ranks
// styles by frequency. Zero ratings are excluded from the average.
func ComputeBeerStats(logs []model.LogRecord) BeerStats {
	type acc struct {
		stat        BrandStat
		ratingSum   int
		ratingCount int
	}
	brands := map[string]*acc{}
	styles := map[string]int{}

	for _, l := range logs {
		if l.Type != model.LogTypeBeer {
			continue
		}
		count := l.Count
		if count < 1 {
			count = 1
		}

		brewery := strings.TrimSpace(l.Brewery)
		if brewery == "" {
			brewery = unknownBrandPart
		}
		brand := strings.TrimSpace(l.Brand)
		if brand == "" {
			brand = unknownBrandPart
		}
		key := brewery + "|" + brand

		a, ok := brands[key]
		if !ok {
			a = &acc{stat: BrandStat{Brewery: brewery, Brand: brand}}
			brands[key] = a
		}
		a.stat.Count += count
		a.stat.TotalML += VolumeForLog(l) * float64(count)
		if l.Rating > 0 {
			a.ratingSum += l.Rating
			a.ratingCount++
		}
		if l.LoggedAt.After(a.stat.LastDrank) {
			a.stat.LastDrank = l.LoggedAt
		}

		if l.Style != "" {
			styles[l.Style] += count
		}
	}

	out := BeerStats{}
	for _, a := range brands {
		if a.ratingCount > 0 {
			a.stat.AvgRating = float64(a.ratingSum) / float64(a.ratingCount)
		}
		out.Brands = append(out.Brands, a.stat)
	}
	sort.Slice(out.Brands, func(i, j int) bool {
		if out.Brands[i].Count != out.Brands[j].Count {
			return out.Brands[i].Count > out.Brands[j].Count
		}
		if out.Brands[i].Brewery != out.Brands[j].Brewery {
			return out.Brands[i].Brewery < out.Brands[j].Brewery
		}
		return out.Brands[i].Brand < out.Brands[j].Brand
	})

	for style, count := range styles {
		out.Styles = append(out.Styles, StyleCount{Style: style, Count: count})
	}
	sort.Slice(out.Styles, func(i, j int) bool {
		if out.Styles[i].Count != out.Styles[j].Count {
			return out.Styles[i].Count > out.Styles[j].Count
		}
		return out.Styles[i].Style < out.Styles[j].Style
	})

	return out
}
