// Package keymap resolves raw key presses against a prioritized,
// context-aware binding table. The dispatcher owns no UI state beyond its
// enable flag; actions call back into whatever mutation functions a pointer
// interaction would use.
package keymap

// Page identifies a top-level tab.
type Page string

const (
	PageBrowse    Page = "browse"
	PagePopular   Page = "popular"
	PageDownloads Page = "downloads"
	PageSettings  Page = "settings"
)

// View identifies a sub-view within a page.
type View string

const (
	ViewList   View = "list"
	ViewDetail View = "detail"
)

// Panel identifies which pane has focus.
type Panel string

const (
	PanelCategories Panel = "categories"
	PanelList       Panel = "list"
	PanelSearch     Panel = "search"
)

// Context is recomputed per key event from current navigation state and the
// event's modifiers/target. It lives only for one dispatch resolution.
type Context struct {
	Page      Page
	View      View
	Focused   Panel
	IsTyping  bool
	CtrlOrCmd bool
	Shift     bool
}

// Binding ties one key to an action. A binding matches when its key equals
// the event key and its guard (if any) passes. WhileTyping opts the binding
// in while a text field has focus; everything else is suppressed there.
type Binding struct {
	Key         string
	Guard       func(Context) bool
	Do          func()
	WhileTyping bool
	Help        string
}

func (b Binding) matches(key string, ctx Context) bool {
	if b.Key != key {
		return false
	}
	if ctx.IsTyping && !b.WhileTyping {
		return false
	}
	return b.Guard == nil || b.Guard(ctx)
}

type tableKey struct {
	page Page
	view View
}

// Dispatcher evaluates bindings in three strict phases: global, then the
// table selected by (page, view), then navigation. First match wins and
// marks the event handled.
type Dispatcher struct {
	enabled  bool
	global   []Binding
	contexts map[tableKey][]Binding
	nav      []Binding
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		enabled:  true,
		contexts: make(map[tableKey][]Binding),
	}
}

// SetEnabled gates all dispatching; a disabled dispatcher ignores every key.
func (d *Dispatcher) SetEnabled(on bool) { d.enabled = on }
func (d *Dispatcher) Enabled() bool      { return d.enabled }

// Global registers bindings that apply in every context.
func (d *Dispatcher) Global(bs ...Binding) {
	d.global = append(d.global, bs...)
}

// Bind registers bindings for one (page, view) pair.
func (d *Dispatcher) Bind(page Page, view View, bs ...Binding) {
	k := tableKey{page, view}
	d.contexts[k] = append(d.contexts[k], bs...)
}

// Nav registers the navigation phase (tab cycling); it is evaluated last and
// never while the user is typing into a text field.
func (d *Dispatcher) Nav(bs ...Binding) {
	d.nav = append(d.nav, bs...)
}

// Dispatch resolves one key event. It returns true when a binding ran, in
// which case the caller suppresses the event's default handling.
func (d *Dispatcher) Dispatch(key string, ctx Context) bool {
	if !d.enabled {
		return false
	}
	for _, b := range d.global {
		if b.matches(key, ctx) {
			b.Do()
			return true
		}
	}
	for _, b := range d.contexts[tableKey{ctx.Page, ctx.View}] {
		if b.matches(key, ctx) {
			b.Do()
			return true
		}
	}
	if ctx.IsTyping {
		return false
	}
	for _, b := range d.nav {
		if b.matches(key, ctx) {
			b.Do()
			return true
		}
	}
	return false
}

// Bindings returns the help entries registered for a (page, view) pair plus
// the globals, in evaluation order.
func (d *Dispatcher) Bindings(page Page, view View) []Binding {
	out := append([]Binding(nil), d.global...)
	out = append(out, d.contexts[tableKey{page, view}]...)
	return append(out, d.nav...)
}
