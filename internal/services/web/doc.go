// Package web serves the page shell: server-rendered pages with a command
// palette, sidebar and feedback popover, plus the JSON API that drives the
// shell's UI state, auth session and posts for each browser.
package web
