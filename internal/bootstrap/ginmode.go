package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode silences gin's debug output outside of local development.
func SetGinMode(env string) {
	switch env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
}
