// Package shell is the infrastructure boundary of the circulation service:
// environment configuration, structured logging, the HTTP router, and the
// translation between JSON request/response bodies and the feature layer.
// Business rules live in the feature packages and core; the shell only maps.
package shell
