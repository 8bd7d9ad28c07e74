package config

// ServerConfig contains the local API server configuration.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0"`
}

// GTIConfig contains Geofox Transit Interface connection settings.
type GTIConfig struct {
	BaseURL   string `yaml:"baseURL" validate:"omitempty,url"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// Instance is one configured home location with its own GTI account. The
// destination is not part of the persisted configuration; it is set at
// runtime through the set_route command.
type Instance struct {
	ID          string `yaml:"id" validate:"required"`
	Name        string `yaml:"name"`
	Username    string `yaml:"username" validate:"required"`
	Password    string `yaml:"password" validate:"required"`
	HomeStation string `yaml:"homeStation" validate:"required"`
	HomeCity    string `yaml:"homeCity" validate:"required"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server    ServerConfig `yaml:"server"`
	GTI       GTIConfig    `yaml:"gti"`
	Instances []Instance   `yaml:"instances" validate:"required,min=1,dive"`
}
