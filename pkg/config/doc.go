// Package config provides configuration management for voterlist.
//
// Settings are read from $VOTERLIST_CONFIG_PATH/voterlist.yml (default
// /etc/voterlist/voterlist.yml) and then overridden by VOTERLIST_*
// environment variables. The source of every attribute is tracked and shown
// by `voterlistctl configuration show`.
//
// # Attributes
//
//   - store: memory or postgres
//   - token_ttl: lifetime of caller tokens
//   - token_issuer: iss claim of caller tokens
//   - rate_limit_requests, rate_limit_window, rate_limit_burst: per client limits
//   - trusted_proxies: CIDR ranges allowed to set X-Forwarded-For
//
// # Secrets
//
// Secrets come from the environment only:
//
//   - DATABASE_URL: PostgreSQL connection for the postgres store
//   - VOTERLIST_TOKEN_KEY: base64 HMAC key for caller tokens
//   - AUDIT_DATABASE_URL: optional audit message database
package config
