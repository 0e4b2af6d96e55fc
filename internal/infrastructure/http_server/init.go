package httpserver

import "github.com/google/wire"

// ProviderSet exposes the HTTP server constructor for Wire.
var ProviderSet = wire.NewSet(NewHTTPServer)
