// Package updatebook implements partial updates of a catalog entry. Only the
// fields present in the command change; adjusting the total copy count
// recomputes availability while keeping every lent copy covered.
package updatebook
