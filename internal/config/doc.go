// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper.
//
// Configuration lives in a CUE file (config.cue) validated against an
// embedded schema before being merged over Viper defaults. There is no
// package-level singleton: callers construct a Provider and pass the loaded
// *Config into the components that need it. Settings split into two
// contracts — live-apply keys observed immediately through Watcher
// subscriptions, and next-run keys that only take effect on the next
// loader/runner invocation.
package config
