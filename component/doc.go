// Package component defines the core interfaces for lifecycle-managed
// service components in tradeflow.
//
// Components represent services that require startup, shutdown, and health
// monitoring: the HTTP server and the market data feed.
// They are registered with a Registry that starts them in registration
// order and stops them in reverse.
package component
