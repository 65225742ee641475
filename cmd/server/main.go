package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tunesync/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 3001,
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	membersLimit = configVar[int]{
		envKey:       "SERVER_MEMBERS_LIMIT",
		flagKey:      "members-limit",
		defaultValue: 50,
	}
	queueLimit = configVar[int]{
		envKey:       "SERVER_QUEUE_LIMIT",
		flagKey:      "queue-limit",
		defaultValue: 100,
	}
	lateJoinSyncDelayMs = configVar[int]{
		envKey:       "SERVER_LATE_JOIN_SYNC_DELAY_MS",
		flagKey:      "late-join-sync-delay-ms",
		defaultValue: 1000,
	}
	searchRatePerMinute = configVar[int]{
		envKey:       "SERVER_SEARCH_RATE_PER_MINUTE",
		flagKey:      "search-rate-per-minute",
		defaultValue: 30,
	}
	searchCacheTTLSec = configVar[int]{
		envKey:       "SERVER_SEARCH_CACHE_TTL_SEC",
		flagKey:      "search-cache-ttl-sec",
		defaultValue: 300,
	}
	youtubeAPIKey = configVar[string]{
		envKey:       "YOUTUBE_API_KEY",
		flagKey:      "youtube-api-key",
		defaultValue: "",
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(membersLimit.flagKey, membersLimit.defaultValue, "Maximum number of participants in a room")
	pflag.Int(queueLimit.flagKey, queueLimit.defaultValue, "Maximum number of items in a queue")
	pflag.Int(lateJoinSyncDelayMs.flagKey, lateJoinSyncDelayMs.defaultValue, "Delay before syncing video state to a late joiner, in milliseconds")
	pflag.Int(searchRatePerMinute.flagKey, searchRatePerMinute.defaultValue, "Search requests per minute per client IP")
	pflag.Int(searchCacheTTLSec.flagKey, searchCacheTTLSec.defaultValue, "Search result cache TTL, in seconds")
	pflag.String(youtubeAPIKey.flagKey, youtubeAPIKey.defaultValue, "YouTube Data API key")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(membersLimit.flagKey, membersLimit.envKey)
	viper.BindEnv(queueLimit.flagKey, queueLimit.envKey)
	viper.BindEnv(lateJoinSyncDelayMs.flagKey, lateJoinSyncDelayMs.envKey)
	viper.BindEnv(searchRatePerMinute.flagKey, searchRatePerMinute.envKey)
	viper.BindEnv(searchCacheTTLSec.flagKey, searchCacheTTLSec.envKey)
	viper.BindEnv(youtubeAPIKey.flagKey, youtubeAPIKey.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(membersLimit.flagKey, membersLimit.defaultValue)
	viper.SetDefault(queueLimit.flagKey, queueLimit.defaultValue)
	viper.SetDefault(lateJoinSyncDelayMs.flagKey, lateJoinSyncDelayMs.defaultValue)
	viper.SetDefault(searchRatePerMinute.flagKey, searchRatePerMinute.defaultValue)
	viper.SetDefault(searchCacheTTLSec.flagKey, searchCacheTTLSec.defaultValue)
	viper.SetDefault(youtubeAPIKey.flagKey, youtubeAPIKey.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	return &app.AppConfig{
		Host:                viper.GetString(host.flagKey),
		Port:                viper.GetInt(port.flagKey),
		LogLevel:            viper.GetString(logLevel.flagKey),
		MembersLimit:        viper.GetInt(membersLimit.flagKey),
		QueueLimit:          viper.GetInt(queueLimit.flagKey),
		LateJoinSyncDelayMs: viper.GetInt(lateJoinSyncDelayMs.flagKey),
		SearchRatePerMinute: viper.GetInt(searchRatePerMinute.flagKey),
		SearchCacheTTLSec:   viper.GetInt(searchCacheTTLSec.flagKey),
		YouTubeAPIKey:       viper.GetString(youtubeAPIKey.flagKey),
		RedisHost:           viper.GetString(redisHost.flagKey),
		RedisPort:           viper.GetInt(redisPort.flagKey),
		RedisPassword:       viper.GetString(redisPassword.flagKey),
	}
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
