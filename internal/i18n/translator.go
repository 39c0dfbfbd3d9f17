package i18n

import "strings"

// PluginAlias is the literal namespace an action uses to reach the
// strings of the plugin it came from.
const PluginAlias = "plugin"

// CommonNamespace holds strings shared by every action.
const CommonNamespace = "common"

// Translator resolves keys for one action invocation. The action may
// reach its own namespace, the namespace of its plugin (when it has
// one), and the common namespace; anything else is returned verbatim.
type Translator struct {
	catalog         *Catalog
	locale          string
	action          string
	pluginNamespace string
}

// NewTranslator creates a translator scoped to one action. The plugin
// namespace may be empty for project and global actions.
func NewTranslator(catalog *Catalog, locale, action, pluginNamespace string) *Translator {
	return &Translator{
		catalog:         catalog,
		locale:          locale,
		action:          action,
		pluginNamespace: pluginNamespace,
	}
}

// T resolves a translation key. A bare key implies the action's own
// namespace. The "plugin:" prefix maps to the plugin namespace when one
// was supplied. A key addressing any other namespace is returned
// unchanged, and an allowed key without a translation resolves to its
// qualified "namespace:key" form. T never fails.
func (t *Translator) T(key string) string {
	ns, rest, found := strings.Cut(key, ":")
	if !found {
		ns, rest = t.action, key
	} else if ns == PluginAlias && t.pluginNamespace != "" {
		ns = t.pluginNamespace
	}

	if !t.allowed(ns) {
		return key
	}
	if text, ok := t.catalog.Lookup(t.locale, ns, rest); ok {
		return text
	}
	return ns + ":" + rest
}

// allowed reports whether the action may address a namespace.
func (t *Translator) allowed(ns string) bool {
	if ns == t.action || ns == CommonNamespace {
		return true
	}
	return t.pluginNamespace != "" && ns == t.pluginNamespace
}

// Locale returns the locale this translator resolves against.
func (t *Translator) Locale() string { return t.locale }
