// Package registermember implements registering a new library member. The
// unique index on the email address turns duplicate registrations into
// core.ErrDuplicateEmail.
package registermember
