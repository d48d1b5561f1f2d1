// Package catalog provides the variable registry consumed by the condition
// expression engine.
//
// A Catalog maps dotted variable paths to their declared type (string,
// number, boolean, array) and the comparison operators expressions may apply
// to them. The engine only ever reads a catalog; whichever subsystem owns
// the semantic schema supplies and refreshes it.
//
// Catalogs load from YAML files of the form:
//
//	variables:
//	  - path: facets.score
//	    label: Quality score
//	    type: number
//	  - path: items
//	    type: array
//
// Definitions omitting allowed_operators get the conventional default set
// for their type (DefaultAllowedOperators): numbers get the ordering
// operators, everything else only equality.
//
// Watcher offers fsnotify-based hot reload with debouncing for long-running
// processes that want catalog edits picked up without a restart.
package catalog
