package gcs

import "github.com/google/wire"

// ProviderSet exposes the blob store client for Wire.
var ProviderSet = wire.NewSet(NewClient)
