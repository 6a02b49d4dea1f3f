// Copyright (c) 2026 Polyglot Labs. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuers.
  - Cache Taxonomy: Redis key prefixes for the named cache regions.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "polyglot-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim expected in bearer tokens.
	AuthIssuer = "polyglot.dev"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldContent = "content"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
)

// # Field Limits (mirrored by database column widths)

const (
	// MaxKeyLength bounds a translation key.
	MaxKeyLength = 500

	// MaxLocaleLength bounds a locale code.
	MaxLocaleLength = 10

	// MaxContentLength bounds translation content.
	MaxContentLength = 5000

	// MaxTagNameLength bounds a tag name.
	MaxTagNameLength = 100

	// MaxTagDescriptionLength bounds a tag description.
	MaxTagDescriptionLength = 500
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// CacheNamespace prefixes every cache region key so a single SCAN pattern
	// can enumerate and evict all regions at once.
	CacheNamespace = "i18n:cache:"

	CacheRegionByID        = CacheNamespace + "translation:id:"
	CacheRegionByKeyLocale = CacheNamespace + "translation:kl:"
	CacheRegionLocales     = CacheNamespace + "locales"
	CacheRegionExport      = CacheNamespace + "export:"
)
