// Package cli provides the command-line interface.
//
// Commands are registered on a package-level root command. The entry point
// injects the settings loader and the application factory with
// SetSettingsLoader and SetAppFactory before calling Execute.
package cli
