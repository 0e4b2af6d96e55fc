package loader

const (
	defaultServiceName = "media"
	defaultConfPath    = "configs"

	defaultHTTPNetwork = "tcp"
	defaultHTTPAddr    = ":8000"
	defaultHTTPTimeout = "30s"

	defaultPostgresSchema = "media"
)

// applyDefaults fills fields the YAML and env left empty.
func applyDefaults(bc *Bootstrap) {
	if bc.Server.HTTP.Network == "" {
		bc.Server.HTTP.Network = defaultHTTPNetwork
	}
	if bc.Server.HTTP.Addr == "" {
		bc.Server.HTTP.Addr = defaultHTTPAddr
	}
	if bc.Server.HTTP.Timeout == "" {
		bc.Server.HTTP.Timeout = defaultHTTPTimeout
	}
	if bc.Data.Postgres.Schema == "" {
		bc.Data.Postgres.Schema = defaultPostgresSchema
	}
}
