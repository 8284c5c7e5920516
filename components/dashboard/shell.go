package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

const (
	// SidebarExpandedWidth is the sidebar width in pixels when expanded.
	SidebarExpandedWidth = 256
	// SidebarCollapsedWidth is the sidebar width in pixels when collapsed.
	SidebarCollapsedWidth = 80

	defaultPageTitle   = "Dashboard"
	defaultNavItem     = "Dashboard"
	defaultAvatarLabel = "BO"
)

var (
	// ErrUnknownNavItem is returned when selecting a label outside the nav menu.
	ErrUnknownNavItem = errors.New("dashboard: unknown navigation item")
	// ErrUnknownScope is returned for time range scopes other than header/tracking.
	ErrUnknownScope = errors.New("dashboard: unknown time range scope")
)

// RangeScope identifies which dropdown a time range selection targets.
type RangeScope string

const (
	ScopeHeader   RangeScope = "header"
	ScopeTracking RangeScope = "tracking"
)

// NavItem is an entry of the sidebar menu.
type NavItem struct {
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Slug    string `json:"slug"`
	Href    string `json:"href"`
	Section string `json:"section"`
}

var mainNavLabels = []struct{ label, icon string }{
	{"Dashboard", "layout-dashboard"},
	{"Leads", "users"},
	{"Customers", "user-circle-2"},
	{"Proposals", "file-text"},
	{"Invoices", "receipt"},
	{"Items", "shopping-cart"},
	{"Mail", "mail"},
	{"Shoebox", "archive"},
	{"Calendar", "calendar-days"},
}

var bottomNavLabels = []struct{ label, icon string }{
	{"Help", "help-circle"},
	{"Settings", "settings"},
}

// NavItems returns the main and bottom sidebar entries in display order.
func NavItems() []NavItem {
	items := make([]NavItem, 0, len(mainNavLabels)+len(bottomNavLabels))
	for _, entry := range mainNavLabels {
		items = append(items, newNavItem(entry.label, entry.icon, "main"))
	}
	for _, entry := range bottomNavLabels {
		items = append(items, newNavItem(entry.label, entry.icon, "bottom"))
	}
	return items
}

func newNavItem(label, icon, section string) NavItem {
	slug := strcase.ToKebab(label)
	return NavItem{
		Label:   label,
		Icon:    icon,
		Slug:    slug,
		Href:    "#" + slug,
		Section: section,
	}
}

func findNavItem(value string) (NavItem, bool) {
	value = strings.TrimSpace(value)
	for _, item := range NavItems() {
		if strings.EqualFold(item.Label, value) || item.Slug == strings.ToLower(value) {
			return item, true
		}
	}
	return NavItem{}, false
}

// ShellState is the per-viewer UI state of the application shell.
// TrackingRange and SourcesTab stay empty until the viewer picks a value, so
// the widget configuration decides the initial selection.
type ShellState struct {
	SidebarCollapsed bool            `json:"sidebar_collapsed"`
	ActiveNav        string          `json:"active_nav"`
	TimeRange        leads.TimeRange `json:"time_range"`
	TrackingRange    leads.TimeRange `json:"tracking_range,omitempty"`
	SourcesTab       leads.SourceTab `json:"sources_tab,omitempty"`
}

// DefaultShellState is the state of a viewer that has not interacted yet.
func DefaultShellState() ShellState {
	return ShellState{
		ActiveNav: defaultNavItem,
		TimeRange: leads.DefaultTimeRange,
	}
}

// Normalize replaces empty or invalid fields with defaults and drops invalid
// widget selections.
func (s ShellState) Normalize() ShellState {
	def := DefaultShellState()
	if _, ok := findNavItem(s.ActiveNav); !ok {
		s.ActiveNav = def.ActiveNav
	}
	if !s.TimeRange.Valid() {
		s.TimeRange = def.TimeRange
	}
	if !s.TrackingRange.Valid() {
		s.TrackingRange = ""
	}
	if !s.SourcesTab.Valid() {
		s.SourcesTab = ""
	}
	return s
}

// ToggleSidebar flips between the expanded and collapsed states.
func (s ShellState) ToggleSidebar() ShellState {
	s.SidebarCollapsed = !s.SidebarCollapsed
	return s
}

// SelectNav marks the given item as the only active one.
func (s ShellState) SelectNav(label string) (ShellState, error) {
	item, ok := findNavItem(label)
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownNavItem, label)
	}
	s.ActiveNav = item.Label
	return s, nil
}

// SelectTimeRange sets the label of the header or tracking dropdown.
func (s ShellState) SelectTimeRange(scope RangeScope, value string) (ShellState, error) {
	r, err := leads.ParseTimeRange(value)
	if err != nil {
		return s, fmt.Errorf("%w: %q", err, value)
	}
	switch scope {
	case ScopeHeader, "":
		s.TimeRange = r
	case ScopeTracking:
		s.TrackingRange = r
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
	return s, nil
}

// SelectSourcesTab changes the active tab of the sources widget.
func (s ShellState) SelectSourcesTab(value string) (ShellState, error) {
	tab, err := leads.ParseSourceTab(value)
	if err != nil {
		return s, fmt.Errorf("%w: %q", err, value)
	}
	s.SourcesTab = tab
	return s, nil
}

// SidebarWidth returns the width in pixels for the current collapse state.
func (s ShellState) SidebarWidth() int {
	if s.SidebarCollapsed {
		return SidebarCollapsedWidth
	}
	return SidebarExpandedWidth
}

// NavItemView is a nav entry with its active flag resolved.
type NavItemView struct {
	NavItem
	Active    bool `json:"active"`
	ShowLabel bool `json:"show_label"`
}

// SidebarView is the template payload for the sidebar.
type SidebarView struct {
	Collapsed bool          `json:"collapsed"`
	Width     int           `json:"width"`
	Initials  string        `json:"initials"`
	Main      []NavItemView `json:"main"`
	Bottom    []NavItemView `json:"bottom"`
}

// CreateAction is an entry of the header "Create" menu.
type CreateAction struct {
	Label string `json:"label"`
	Route string `json:"route"`
}

// HeaderView is the template payload for the top header.
type HeaderView struct {
	Title         string         `json:"title"`
	LeftOffset    int            `json:"left_offset"`
	TimeRange     string         `json:"time_range"`
	TimeRanges    []string       `json:"time_ranges"`
	CreateActions []CreateAction `json:"create_actions"`
}

// ShellView combines the sidebar, header and content offset.
type ShellView struct {
	Sidebar       SidebarView `json:"sidebar"`
	Header        HeaderView  `json:"header"`
	ContentOffset int         `json:"content_offset"`
}

// DefaultCreateActions lists the header "Create" menu.
func DefaultCreateActions() []CreateAction {
	return []CreateAction{
		{Label: "New Lead", Route: "/admin/leads/new"},
		{Label: "New Contact", Route: "/admin/contacts/new"},
		{Label: "New Task", Route: "/admin/tasks/new"},
	}
}

// BuildShellView projects the state into the sidebar/header layout.
func BuildShellView(title string, state ShellState) ShellView {
	state = state.Normalize()
	if title == "" {
		title = defaultPageTitle
	}
	width := state.SidebarWidth()
	sidebar := SidebarView{
		Collapsed: state.SidebarCollapsed,
		Width:     width,
		Initials:  defaultAvatarLabel,
	}
	for _, item := range NavItems() {
		view := NavItemView{
			NavItem:   item,
			Active:    item.Label == state.ActiveNav,
			ShowLabel: !state.SidebarCollapsed,
		}
		if item.Section == "bottom" {
			sidebar.Bottom = append(sidebar.Bottom, view)
		} else {
			sidebar.Main = append(sidebar.Main, view)
		}
	}
	ranges := leads.TimeRanges()
	options := make([]string, len(ranges))
	for i, r := range ranges {
		options[i] = string(r)
	}
	return ShellView{
		Sidebar: sidebar,
		Header: HeaderView{
			Title:         title,
			LeftOffset:    width,
			TimeRange:     string(state.TimeRange),
			TimeRanges:    options,
			CreateActions: DefaultCreateActions(),
		},
		ContentOffset: width,
	}
}
