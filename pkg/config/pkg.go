package config

// configer is the process wide configuration. Commands install theirs with
// SetConfig before calling Load.
var configer Configer = &DotenvConfig{}

func SetConfig(c Configer) {
	configer = c
}

func GetConfig() Configer {
	return configer
}

func Load() error {
	return configer.Load()
}

// GetSettings resolves Settings from the installed configuration.
func GetSettings() Settings {
	return LoadSettings(configer)
}
