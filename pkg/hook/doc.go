// Package hook defines module lifecycle actions and their secure execution.
//
// An Action is a tagged variant: either a reference to an in-process
// operation registered against a closed set, or an external-process
// invocation described by a literal argument vector. There is no API for
// building an action from an interpolated command line, so module-supplied
// text can never escape its argument boundary.
package hook
