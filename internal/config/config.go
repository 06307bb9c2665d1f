package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port           string
		GRPCHealthPort string
		LogLevel       string
		PublicWSURL    string
	}
	Eleven struct {
		APIKey  string
		AgentID string
		BaseURL string
	}
	Images struct {
		BaseURL   string
		APIKey    string
		Model     string
		Aspect    string
		ImageType string
		Timeout   time.Duration
	}
	Vision struct {
		BaseURL string
		Timeout time.Duration
	}
	Client struct {
		TokenSecret   string
		TokenTTLMin   int
		TokenSkewSecs int
	}
	Progress struct {
		DBPath string
	}
	Activity struct {
		RetryDelay time.Duration
	}
}

func Load() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.grpc_health_port", 9090)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("elevenlabs.base_url", "https://api.elevenlabs.io")

	v.SetDefault("images.model", "bing")
	v.SetDefault("images.aspect", "All")
	v.SetDefault("images.image_type", "Photo")
	v.SetDefault("images.timeout_ms", 8000)

	v.SetDefault("vision.timeout_ms", 15000)

	v.SetDefault("client.token_ttl_min", 120)
	v.SetDefault("client.token_skew_secs", 60)

	v.SetDefault("progress.db_path", "tutor-progress.db")

	v.SetDefault("activity.retry_delay_ms", 2000)

	// Map envs
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.grpc_health_port", "GRPC_HEALTH_PORT")
	v.BindEnv("server.log_level", "LOG_LEVEL")
	v.BindEnv("server.public_ws_url", "PUBLIC_WS_URL")

	v.BindEnv("elevenlabs.api_key", "ELEVENLABS_API_KEY")
	v.BindEnv("elevenlabs.agent_id", "ELEVENLABS_AGENT_ID")
	v.BindEnv("elevenlabs.base_url", "ELEVENLABS_BASE_URL")

	v.BindEnv("images.base_url", "IMAGE_SEARCH_URL")
	v.BindEnv("images.api_key", "IMAGE_SEARCH_API_KEY")
	v.BindEnv("images.model", "IMAGE_SEARCH_MODEL")
	v.BindEnv("images.timeout_ms", "IMAGE_SEARCH_TIMEOUT_MS")

	v.BindEnv("vision.base_url", "VISION_URL")
	v.BindEnv("vision.timeout_ms", "VISION_TIMEOUT_MS")

	v.BindEnv("client.token_secret", "CLIENT_TOKEN_SECRET")
	v.BindEnv("client.token_ttl_min", "CLIENT_TOKEN_TTL_MIN")
	v.BindEnv("client.token_skew_secs", "CLIENT_TOKEN_SKEW_SECS")

	v.BindEnv("progress.db_path", "PROGRESS_DB_PATH")

	v.BindEnv("activity.retry_delay_ms", "ACTIVITY_RETRY_DELAY_MS")

	var c Config
	c.Server.Port = toString(v.Get("server.port"))
	c.Server.GRPCHealthPort = toString(v.Get("server.grpc_health_port"))
	c.Server.LogLevel = v.GetString("server.log_level")
	c.Server.PublicWSURL = v.GetString("server.public_ws_url")

	c.Eleven.APIKey = v.GetString("elevenlabs.api_key")
	c.Eleven.AgentID = v.GetString("elevenlabs.agent_id")
	c.Eleven.BaseURL = strings.TrimSuffix(v.GetString("elevenlabs.base_url"), "/")

	c.Images.BaseURL = strings.TrimSuffix(v.GetString("images.base_url"), "/")
	c.Images.APIKey = v.GetString("images.api_key")
	c.Images.Model = v.GetString("images.model")
	c.Images.Aspect = v.GetString("images.aspect")
	c.Images.ImageType = v.GetString("images.image_type")
	c.Images.Timeout = time.Duration(v.GetInt("images.timeout_ms")) * time.Millisecond

	c.Vision.BaseURL = strings.TrimSuffix(v.GetString("vision.base_url"), "/")
	c.Vision.Timeout = time.Duration(v.GetInt("vision.timeout_ms")) * time.Millisecond

	c.Client.TokenSecret = v.GetString("client.token_secret")
	c.Client.TokenTTLMin = v.GetInt("client.token_ttl_min")
	c.Client.TokenSkewSecs = v.GetInt("client.token_skew_secs")

	c.Progress.DBPath = v.GetString("progress.db_path")

	c.Activity.RetryDelay = time.Duration(v.GetInt("activity.retry_delay_ms")) * time.Millisecond

	log.Printf("config loaded: port=%s grpc_health=%s agent_id=%s images=%t vision=%t",
		c.Server.Port, c.Server.GRPCHealthPort, c.Eleven.AgentID, c.Images.BaseURL != "", c.Vision.BaseURL != "")
	return c
}

func toString(v any) string { return fmt.Sprint(v) }
