// Package execctx builds the capability bundle injected into an action
// and executes actions through it.
//
// A Context is ephemeral: the Factory assembles one per invocation from
// the merged configuration and the action's plugin metadata, and it is
// discarded when the action returns. The Executor wraps the invocation
// so the caller always receives a Result, never a panic or an error
// escaping the action.
package execctx
