// Package i18n provides the localized-string catalog and the
// namespace-scoped translator handed to actions.
//
// Strings are organized locale -> namespace -> key. A namespace is the
// scoping unit of the translation system: each action owns a namespace
// named after itself, each plugin owns one derived from its package
// name, and "common" is shared. The translator enforces which
// namespaces an action may reach; resolution never fails, it degrades
// to the qualified key.
package i18n
