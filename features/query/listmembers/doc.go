// Package listmembers implements the member listing query.
package listmembers
