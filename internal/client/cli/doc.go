// Package cli provides fitcli, the interactive FitTrack command-line client.
//
// It wires configuration, the local session store and the HTTP API client
// behind a cobra command tree. Without a sub-command the REPL starts: it
// restores the stored session, watches server reachability in the
// background and executes user commands (signup, signin, profile, goals,
// activities, weekly report and so on).
//
// The one-shot sub-commands goals, activities and report reuse the stored
// session and print a single listing.
package cli
