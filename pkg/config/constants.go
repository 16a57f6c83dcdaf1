package config

const (
	EnvPrefix = "fripe"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env var names referenced outside envconfig tags (tests, error messages).
const (
	EnvAppEnv              = "FRIPE_APP_ENV"
	EnvPort                = "FRIPE_APP_PORT"
	EnvDBDSN               = "FRIPE_DB_DSN"
	EnvRedisURL            = "FRIPE_REDIS_URL"
	EnvCloudinaryCloudName = "FRIPE_CLOUDINARY_CLOUD_NAME"
	EnvCloudinaryAPIKey    = "FRIPE_CLOUDINARY_API_KEY"
	EnvCloudinaryAPISecret = "FRIPE_CLOUDINARY_API_SECRET"
)
