package config

import "os"

func IsDebug() bool {
	return os.Getenv("CAMPUSBOT_DEBUG") == "1"
}
