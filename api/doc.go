// Package api is the typed surface of the IHDRS backend, one thin wrapper
// per endpoint over the transport pipeline. Auth payloads mirror the
// backend's DTOs; profile bodies stay raw JSON because the Manager owns the
// profile model and its extension fields.
package api
