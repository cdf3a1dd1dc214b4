// Package removemember implements deleting a member. A member who still has
// a book out cannot be removed; returned history does not block removal.
package removemember
