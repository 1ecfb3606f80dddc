package navigation

// Page is a navigable app destination with the spoken aliases users
// actually say for it.
type Page struct {
	Target  string
	Aliases []string
}

// Pages lists every navigable destination.
func Pages() []Page {
	return []Page{
		{Target: "dashboard", Aliases: []string{"dashboard", "home", "main page", "overview"}},
		{Target: "matters", Aliases: []string{"matters", "matter", "cases", "case list", "briefs"}},
		{Target: "invoices", Aliases: []string{"invoices", "invoice", "billing", "bills"}},
		{Target: "time-entries", Aliases: []string{"time entries", "time entry", "timesheet", "my time"}},
		{Target: "compliance", Aliases: []string{"compliance", "trust account", "audit"}},
		{Target: "reports", Aliases: []string{"reports", "report", "analytics"}},
		{Target: "practice-growth", Aliases: []string{"practice growth", "growth", "referrals"}},
		{Target: "settings", Aliases: []string{"settings", "preferences", "configuration", "profile"}},
	}
}

// navigationVerbs introduce a navigate command.
var navigationVerbs = []string{
	"open", "go to", "show", "display", "navigate to", "switch to", "take me to",
}

// searchVerbs introduce a search command.
var searchVerbs = []string{
	"find", "search", "search for", "look for", "locate",
}

// QuickAction is a one-shot operation with its trigger phrases.
type QuickAction struct {
	Target  string
	Phrases []string
}

// QuickActions lists every supported quick action.
func QuickActions() []QuickAction {
	return []QuickAction{
		{Target: "create_invoice", Phrases: []string{"create invoice", "new invoice", "generate invoice"}},
		{Target: "new_matter", Phrases: []string{"new matter", "create matter", "add matter", "open a new matter"}},
		{Target: "start_timer", Phrases: []string{"start timer", "start the timer", "begin timer", "start tracking"}},
		{Target: "stop_timer", Phrases: []string{"stop timer", "stop the timer", "end timer", "stop tracking"}},
		{Target: "new_time_entry", Phrases: []string{"new time entry", "add time entry", "record time", "log time"}},
		{Target: "generate_report", Phrases: []string{"generate report", "run report", "create report"}},
	}
}

// pageTargets returns the target slugs, used for validating and fuzzy
// correcting remote classifications.
func pageTargets() []string {
	pages := Pages()
	targets := make([]string, len(pages))
	for i, p := range pages {
		targets[i] = p.Target
	}
	return targets
}

// quickActionTargets returns the quick-action slugs.
func quickActionTargets() []string {
	actions := QuickActions()
	targets := make([]string, len(actions))
	for i, a := range actions {
		targets[i] = a.Target
	}
	return targets
}
