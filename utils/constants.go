package utils

import (
	"time"
)

// ContextKey is the type used for request-scoped context values
type ContextKey string

// Request context keys set by the handlers for every incoming request
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)

// Pagination defaults for list endpoints
const (
	DefaultListLimit  = 10
	DefaultListOffset = 0
	MaxListLimit      = 100
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// DefaultRequestTimeout bounds handler-scoped database work
const DefaultRequestTimeout = 30 * time.Second
