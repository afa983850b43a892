package game

import (
	"fmt"
	"strings"
)

// NewVenture builds day 1 of a company from the startup type's feature template and the
// funding path's starting terms.
func NewVenture(name string, startupType StartupType, path StartingPath) (Venture, error) {
	templates, ok := featureCatalog[startupType]
	if !ok {
		return Venture{}, fmt.Errorf("%w: %q", ErrUnknownStartupType, startupType)
	}
	terms, ok := startingTerms[path]
	if !ok {
		return Venture{}, fmt.Errorf("%w: %q", ErrUnknownStartingPath, path)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultCompanyName
	}

	features := make([]Feature, 0, len(templates))
	for _, t := range templates {
		status := FeatureAvailable
		if len(t.Prerequisites) > 0 {
			status = FeatureLocked
		}
		features = append(features, Feature{
			ID:             t.ID,
			Name:           t.Name,
			Description:    t.Description,
			Cost:           t.Cost,
			RemainingCost:  t.Cost,
			Capacity:       t.Capacity,
			RevenuePerUser: t.RevenuePerUser,
			UserBonus:      t.UserBonus,
			Status:         status,
			Prerequisites:  append([]string{}, t.Prerequisites...),
		})
	}

	return Venture{
		Day:               1,
		Cash:              terms.Cash,
		Users:             StartingUsers,
		Team:              []Employee{},
		Features:          features,
		MarketingChannels: cloneSlice(channelCatalog),
		HiringQueue:       []HiringRequest{},
		CompanyName:       name,
		StartupType:       startupType,
		StartingPath:      path,
		Equity:            terms.Equity,
		DebtAmount:        terms.Debt,
		MarketCondition:   MarketSteady,
		QuarterlyGrowth:   []float64{StartingGrowth},
	}, nil
}
