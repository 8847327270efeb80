package config

import "os"

func IsDebug() bool {
	return os.Getenv("GEMCORD_DEBUG") == "1"
}
