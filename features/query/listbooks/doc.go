// Package listbooks implements the catalog listing query with an optional
// case-insensitive search over title and author.
package listbooks
