package configuration

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Dir               string `usage:"data directory"`
	Statics           string `usage:"statics directory"`
	MaxAge            int64  `usage:"seconds of history kept per edge, 0 keeps everything"`
	EnableCompression bool   `usage:"gzip responses"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:   ":8080",
		Dir:        "data",
		ShowBanner: true,
	}
}
