// Package cli provides the interactive Snapline command-line client.
//
// It wires configuration, the local session store, the HTTP API client, and
// the document-sync connection into an interactive REPL. Typical flow: log
// in, list chats, open one to stream its messages, send texts and snaps.
//
// Key features:
//   - Register / Login / Logout, password reset via emailed code
//   - Friends listing and profile lookup
//   - Live chat view with incremental history paging
//   - Snap upload with optional caption
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// A background watcher reacts to session invalidation announcements by
// dropping local credentials. See App, StartSessionWatcher, and runREPL.
package cli
