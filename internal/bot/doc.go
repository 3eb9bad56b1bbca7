// Package bot is the administrative core: the admin gate, per-admin
// session modes, the user registry, join approval, broadcast fan-out and
// the router that dispatches inbound updates to them.
//
// Updates are handled one at a time by Router.Run. Registry and Sessions
// still lock internally because the report scheduler reads the registry
// from its own goroutine.
package bot
