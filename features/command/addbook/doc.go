// Package addbook implements adding a book to the catalog. A new book starts
// with all copies available; the unique index on the ISBN turns duplicate
// submissions into core.ErrDuplicateISBN.
package addbook
