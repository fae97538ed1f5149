// Package templates holds the starter projects written by typedroute init:
// a typedroute.yaml and a route manifest.
package templates
