package database

import "github.com/google/wire"

// ProviderSet exposes the pool constructor for Wire.
var ProviderSet = wire.NewSet(NewPgxPool)
