// Package resolver performs the single A-record lookups used by the DNS-based
// vendor adapters. Two implementations exist: System uses the platform
// resolver (tunnelled through SOCKS5 when the configured proxy is socks5://)
// and Wire sends the query straight to an explicit nameserver.
package resolver
