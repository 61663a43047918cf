// Package panel renders the order summary panel from the form readiness and
// the latest delivery quote. It holds no form state of its own: every repaint
// is derived from an orchestrator.Readiness snapshot.
package panel

import (
	"github.com/goliatone/go-courierform/pkg/formstate"
	"github.com/goliatone/go-courierform/pkg/orchestrator"
	"github.com/goliatone/go-courierform/pkg/pricing"
)

// CSS hooks toggled by the panel.
const (
	ClassPanelFilled   = "courier-aside--filled"
	ClassFooterFilled  = "filled"
	ClassSubmitDisable = "btn-form_disable"
)

var indicatorClasses = map[orchestrator.IndicatorState]string{
	orchestrator.IndicatorInvalid:  "icon icon-close icon--base",
	orchestrator.IndicatorComplete: "icon icon-checkmark icon--success",
	orchestrator.IndicatorPending:  "icon icon-close icon--primary",
}

// Indicator is one section status icon.
type Indicator struct {
	Section   formstate.Section           `json:"section"`
	Title     string                      `json:"title"`
	State     orchestrator.IndicatorState `json:"state"`
	ClassName string                      `json:"className"`
}

// View is everything the panel template needs for one repaint.
type View struct {
	Filled         bool        `json:"filled"`
	Indicators     []Indicator `json:"indicators"`
	Price          string      `json:"price"`
	PriceOK        bool        `json:"priceOk"`
	SubmitDisabled bool        `json:"submitDisabled"`
}

// IndicatorClass returns the icon classes for a state.
func IndicatorClass(state orchestrator.IndicatorState) string {
	return indicatorClasses[state]
}

// BuildView derives a View. A nil quote leaves the price empty.
func BuildView(decl formstate.Declaration, readiness orchestrator.Readiness, quote *pricing.Quote) View {
	view := View{
		Filled:         readiness.Complete(),
		SubmitDisabled: !readiness.CanSubmit,
	}
	for _, ind := range orchestrator.IndicatorsFrom(decl, readiness) {
		view.Indicators = append(view.Indicators, Indicator{
			Section:   ind.Section,
			Title:     ind.Title,
			State:     ind.State,
			ClassName: IndicatorClass(ind.State),
		})
	}
	if quote != nil {
		view.Price = quote.Sum
		view.PriceOK = quote.IsSuccess
	}
	return view
}
