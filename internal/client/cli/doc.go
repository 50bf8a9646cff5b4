// Package cli is the interactive terminal front end of the SocialHub client.
//
// App wires the session store, the post store and the access gate from a
// config.Config, and acts as the session Navigator: a navigation prints the
// new view and is reflected in the prompt. Commands that need a logged-in
// user go through the gate, which sends anonymous users to the login view.
//
// Commands: help, login, register, reset, logout, whoami, profile, feed,
// mine, refresh, post, edit, delete, show, exit | quit.
package cli
