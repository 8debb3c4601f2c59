// Package config loads service configuration from config.yml, .env files,
// and the process environment, in that precedence order.
//
// Structs implementing ApplyDefaults and Validate get both called after
// unmarshaling. Environment variables reach nested fields through key
// variants, so ENGINE_NODE_TIMEOUT addresses engine.node_timeout.
package config
