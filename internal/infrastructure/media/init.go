package media

import "github.com/google/wire"

// ProviderSet exposes the prober for Wire.
var ProviderSet = wire.NewSet(NewProber)
