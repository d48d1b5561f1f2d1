// Vega is a condition engine for payload routing.
//
// It compiles a small boolean expression language into JSON-Logic,
// validates expressions against a typed variable catalog, and evaluates
// compiled conditions against runtime payloads to pick routes.
//
// Usage:
//
//	# Validate an expression against a catalog
//	vega check --catalog catalog.yaml 'facets.score > 0.5'
//
//	# Render JSON-Logic back to canonical expression text
//	vega render --catalog catalog.yaml '{">": [{"var": "facets.score"}, 0.5]}'
//
//	# Evaluate an expression against a payload
//	vega eval --catalog catalog.yaml --payload payload.json 'facets.score > 0.5'
//
//	# Start the decision API server
//	vega serve --config /etc/vega/config.yaml
//
//	# Show version information
//	vega version
package main

func main() {
	Execute()
}
