package orchestrator

import "github.com/goliatone/go-courierform/pkg/formstate"

// IndicatorState is the per-section status shown in the summary panel.
type IndicatorState string

const (
	// IndicatorInvalid marks a section holding a rejected field.
	IndicatorInvalid IndicatorState = "invalid"
	// IndicatorComplete marks a section that is filled and valid.
	IndicatorComplete IndicatorState = "complete"
	// IndicatorPending marks a valid section still missing values.
	IndicatorPending IndicatorState = "pending"
)

// SectionIndicator pairs a section with its panel status.
type SectionIndicator struct {
	Section formstate.Section `json:"section"`
	Title   string            `json:"title"`
	State   IndicatorState    `json:"state"`
}

// IndicatorFor derives the status of one section. Invalid wins over
// everything, then filled sections are complete.
func IndicatorFor(filled, valid bool) IndicatorState {
	switch {
	case !valid:
		return IndicatorInvalid
	case filled:
		return IndicatorComplete
	default:
		return IndicatorPending
	}
}

// Indicators returns the status of receiver, package and shipper in that
// order.
func (o *Orchestrator) Indicators() ([]SectionIndicator, error) {
	readiness, err := o.Readiness()
	if err != nil {
		return nil, err
	}
	return IndicatorsFrom(o.Declaration(), readiness), nil
}

// IndicatorsFrom derives section statuses from a readiness report, taking
// titles from decl.
func IndicatorsFrom(decl formstate.Declaration, readiness Readiness) []SectionIndicator {
	out := make([]SectionIndicator, 0, len(formstate.AggregateSections))
	for _, section := range formstate.AggregateSections {
		title := string(section)
		if sd, ok := decl.Section(section); ok && sd.Title != "" {
			title = sd.Title
		}
		out = append(out, SectionIndicator{
			Section: section,
			Title:   title,
			State:   IndicatorFor(readiness.Fill.Section(section), readiness.Valid.Section(section)),
		})
	}
	return out
}
