package config

type CacheConfig interface {
	GetCacheConnectionString() string
}

const redisConnectionStringVar = "REDIS_CONNECTION_STRING"

type CacheVars struct{}

var _ CacheConfig = CacheVars{}

// GetCacheConnectionString returns the Redis URL shared by the CSRF state
// set, the download link set and the session records.
func (CacheVars) GetCacheConnectionString() string {
	return GetEnv(redisConnectionStringVar, "")
}
