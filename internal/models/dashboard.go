package models

// CategoryGroup is one dashboard section. Groups appear in the fixed
// category order; empty categories are omitted.
type CategoryGroup struct {
	Category ComplianceCategory `json:"category"`
	Items    []*ComplianceItem  `json:"items"`
}

// Dashboard is the aggregated compliance view for the user's active
// business. A user who has not finished onboarding gets a redirect marker
// instead of data.
type Dashboard struct {
	User                 *UserProfile    `json:"user"`
	Business             *Business       `json:"business,omitempty"`
	Groups               []CategoryGroup `json:"groups,omitempty"`
	TotalItems           int             `json:"total_items"`
	CompletedItems       int             `json:"completed_items"`
	RedirectToOnboarding bool            `json:"redirect_to_onboarding,omitempty"`
}
