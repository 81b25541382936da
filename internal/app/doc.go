// Package app is the composition root for nosh.
//
// Run wires the pieces together in order:
//
//  1. Load application config from ~/.config/nosh/config.toml
//  2. Open the log file (diagnostics never go to the terminal)
//  3. Load user preferences (theme)
//  4. Open the data directory and the tracker store on top of it
//  5. Start the fsnotify watcher so external edits to the data files
//     reload the store
//  6. Start the TUI and block until the user quits or the context is
//     cancelled
//
// Only config loading is fatal. A missing or unwritable data directory
// degrades to a memory-only session with a diagnostic; a failed watcher
// just means external edits go unnoticed until restart.
package app
