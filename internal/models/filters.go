package models

// DateRange bounds are kept as the caller supplied them and parsed with
// ParseTimestamp when a filter is applied.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// TradeFilters is a conjunctive predicate description. Unset fields never
// exclude a trade.
type TradeFilters struct {
	DateRange     *DateRange `json:"dateRange,omitempty"`
	Symbols       []string   `json:"symbols,omitempty"`
	Setups        []string   `json:"setups,omitempty"`
	MinPnL        *float64   `json:"minPnL,omitempty"`
	MaxPnL        *float64   `json:"maxPnL,omitempty"`
	WinOnly       bool       `json:"winOnly,omitempty"`
	LossOnly      bool       `json:"lossOnly,omitempty"`
	MinRiskReward *float64   `json:"minRiskReward,omitempty"`
	Emotions      []string   `json:"emotions,omitempty"`
	SearchText    string     `json:"searchText,omitempty"`
}

// IsEmpty reports whether no predicate is active.
func (f TradeFilters) IsEmpty() bool {
	return f.DateRange == nil &&
		len(f.Symbols) == 0 &&
		len(f.Setups) == 0 &&
		f.MinPnL == nil &&
		f.MaxPnL == nil &&
		!f.WinOnly &&
		!f.LossOnly &&
		f.MinRiskReward == nil &&
		len(f.Emotions) == 0 &&
		f.SearchText == ""
}

// FilterPreset is a named snapshot of TradeFilters. Applying it filters the
// current trade collection, not a frozen result set.
type FilterPreset struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Filters   TradeFilters `json:"filters"`
	CreatedAt int64        `json:"createdAt"` // epoch milliseconds
}

// Float returns a pointer to v, for optional filter bounds.
func Float(v float64) *float64 {
	return &v
}
