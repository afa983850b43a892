package game

import "fmt"

const (
	scaleCostShare      = 0.6
	scaleCapacityFactor = 2.5
)

// StartDeveloping begins building an Available feature, or re-architects one that
// needs scaling. Scaling costs 60% of the base cost and raises capacity immediately.
func StartDeveloping(v Venture, featureID string) (Venture, []Event, error) {
	if v.IsGameOver {
		return v, nil, ErrGameOver
	}
	idx, ok := v.feature(featureID)
	if !ok {
		return v, nil, fmt.Errorf("%w: %s", ErrFeatureNotFound, featureID)
	}
	cur := v.Features[idx]
	if cur.Status != FeatureAvailable && cur.Status != FeatureNeedsScale {
		return v, nil, fmt.Errorf("%w: feature %s is %s", ErrInvalidTransition, cur.ID, cur.Status)
	}

	next := v.Clone()
	f := &next.Features[idx]
	var msg string
	if f.Status == FeatureNeedsScale {
		f.RemainingCost = f.Cost * scaleCostShare
		f.Capacity *= scaleCapacityFactor
		f.WasScaling = true
		msg = fmt.Sprintf("Scaling %s", f.Name)
	} else {
		f.RemainingCost = f.Cost
		f.WasScaling = false
		msg = fmt.Sprintf("Development started: %s", f.Name)
	}
	f.Status = FeatureDeveloping
	return next, []Event{{Message: msg, Severity: SeverityInfo}}, nil
}

// advanceFeatures runs one day of development. users is the post-growth count; the
// returned bonus is added to it by the caller.
func advanceFeatures(features []Feature, users int64, velocity float64) (bonus int64, events []Event) {
	for i := range features {
		f := &features[i]
		switch f.Status {
		case FeatureDeveloping:
			remaining := f.RemainingCost - velocity
			if remaining <= 0 {
				f.Status = FeatureLive
				f.RemainingCost = 0
				bonus += f.UserBonus
				events = append(events, Event{Message: fmt.Sprintf("Feature Launched: %s", f.Name), Severity: SeveritySuccess})
				continue
			}
			f.RemainingCost = remaining
		case FeatureLive:
			if float64(users) > f.Capacity {
				f.Status = FeatureNeedsScale
				events = append(events, Event{Message: fmt.Sprintf("%s is over capacity and needs scaling", f.Name), Severity: SeverityError})
			}
		}
	}
	return bonus, events
}

// unlockReadyFeatures moves Locked features whose prerequisites are all Live to
// Available. Only runs when Engine.ResolvePrerequisites is set.
func unlockReadyFeatures(features []Feature) []Event {
	live := make(map[string]bool, len(features))
	for _, f := range features {
		if f.Status == FeatureLive {
			live[f.ID] = true
		}
	}
	var events []Event
	for i := range features {
		f := &features[i]
		if f.Status != FeatureLocked {
			continue
		}
		ready := true
		for _, p := range f.Prerequisites {
			if !live[p] {
				ready = false
				break
			}
		}
		if ready {
			f.Status = FeatureAvailable
			f.RemainingCost = f.Cost
			events = append(events, Event{Message: fmt.Sprintf("Feature unlocked: %s", f.Name), Severity: SeverityInfo})
		}
	}
	return events
}

// Progress is the completed share of a developing feature in [0,1].
func (f Feature) Progress() float64 {
	if f.Status != FeatureDeveloping || f.Cost <= 0 {
		if f.Status == FeatureLive || f.Status == FeatureNeedsScale {
			return 1
		}
		return 0
	}
	base := f.Cost
	if f.WasScaling {
		base = f.Cost * scaleCostShare
	}
	return clamp((base-f.RemainingCost)/base, 0, 1)
}
