// Package config resolves flowstore settings from layered sources.
//
// Precedence, highest first:
//  1. Explicit overrides (ResolveWithOverrides)
//  2. Environment variables (FLOWSTORE_BASE_DIR, FLOWSTORE_STRATEGY, ...)
//  3. Local config: the nearest .flowstore.yaml in the working directory or a parent
//  4. Global config: ~/.config/flowstore/config.yaml
//  5. Built-in defaults
//
// # Keys
//
//   - base_dir: root directory for artifacts (default ".")
//   - strategy: "auto" or "custom" (default "auto")
//   - codec: "gob", "json", "yaml" or "cbor" (default "cbor")
//   - compress: gzip artifact bytes (default false)
//
// # Basic Usage
//
//	resolver := config.NewResolver(config.DefaultResolverConfig())
//	settings, err := resolver.Resolve().Settings()
//	if err != nil {
//	    return err // *config.ConfigError, matches artifact.ErrInvalidConfig
//	}
//	mgrCfg, err := settings.ManagerConfig()
//	mgr, err := artifact.NewManager(mgrCfg)
//
// Each resolved value tracks where it came from; see Source.
package config
