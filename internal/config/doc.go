// Package config provides the configuration model and loading for the
// route registry service.
//
// Configuration is a YAML document with ${VAR:-default} environment
// substitution. It declares the routes loaded at startup, filters applied
// to every configured route, the admin API listener and observability
// settings.
//
//	cfg, err := config.LoadConfig("routeregistry.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := config.ValidateConfig(cfg); err != nil {
//	    return err
//	}
//	defs := cfg.RouteDefinitions()
//
// A Watcher reloads the file on change and hands every valid
// configuration to a callback.
package config
