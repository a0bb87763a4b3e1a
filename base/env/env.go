package env

import (
	"os"
)

// PodName example: k8ssta-auction-api-6868d88fbd-bz8zv
// Falls back to the host name outside k8s.
func PodName() string {
	if name := os.Getenv("PODNAME"); name != "" {
		return name
	}
	name, _ := os.Hostname()
	return name
}

// EnvName example: k8ssta
func EnvName() string {
	return os.Getenv("ENV_NAME")
}

// AppName example: reconciler
func AppName() string {
	return os.Getenv("APP_NAME")
}
