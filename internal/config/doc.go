// Package config provides the configuration of qrtitle: transport and fetch
// settings, report preferences, scan source options and the optional
// per-host configuration file.
package config
