package compat

// Browser is a recognized browser identifier and its display name.
type Browser struct {
	ID   string
	Name string
}

// browsers is the fixed rendering order. Identifiers not listed here are
// ignored when rendering support tables.
var browsers = []Browser{
	{ID: "chrome", Name: "Chrome"},
	{ID: "chrome_android", Name: "Chrome Android"},
	{ID: "edge", Name: "Edge"},
	{ID: "edge_mobile", Name: "Edge Mobile"},
	{ID: "firefox", Name: "Firefox"},
	{ID: "firefox_android", Name: "Firefox Android"},
	{ID: "ie", Name: "Internet Explorer"},
	{ID: "opera", Name: "Opera"},
	{ID: "opera_android", Name: "Opera Android"},
	{ID: "safari", Name: "Safari"},
	{ID: "safari_ios", Name: "Safari iOS"},
	{ID: "samsunginternet_android", Name: "Samsung Internet"},
	{ID: "webview_android", Name: "WebView Android"},
}

// Browsers returns the recognized browsers in rendering order.
func Browsers() []Browser {
	out := make([]Browser, len(browsers))
	copy(out, browsers)
	return out
}

// IsKnownBrowser reports whether id is a recognized browser identifier.
func IsKnownBrowser(id string) bool {
	for _, b := range browsers {
		if b.ID == id {
			return true
		}
	}
	return false
}
