package configuration

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"channel-portfolio/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Data        Data        `json:"data"`
	Logger      Logger      `json:"logger"`
	YouTube     YouTube     `json:"youtube"`
	Catalog     Catalog     `json:"catalog"`
}

type App struct {
	Port int `json:"port"`
}

type Database struct {
	Psql  Db `json:"psql"`
	Mongo Db `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Data selects the snapshot store backend: file, postgres or mongo.
type Data struct {
	Source string `json:"source"`
	File   string `json:"file"`
}

type Logger struct {
	Format string `json:"format"`
}

type YouTube struct {
	APIKey            string `json:"apiKey"`
	ChannelID         string `json:"channelId"`
	PodcastPlaylistID string `json:"podcastPlaylistId"`
}

type Catalog struct {
	StalenessThresholdHours int `json:"stalenessThresholdHours"`
	ShortsMaxSeconds        int `json:"shortsMaxSeconds"`
	RequestTimeoutSeconds   int `json:"requestTimeoutSeconds"`
}

// StalenessThreshold returns the configured threshold as a duration.
func (c Catalog) StalenessThreshold() time.Duration {
	return time.Duration(c.StalenessThresholdHours) * time.Hour
}

// ShortsCutoff returns the maximum duration of a short-form video.
func (c Catalog) ShortsCutoff() time.Duration {
	return time.Duration(c.ShortsMaxSeconds) * time.Second
}

// RequestTimeout bounds a single upstream API call.
func (c Catalog) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initCatalog(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}

	if C.Database.Mongo.Host == "" {
		C.Database.Mongo.Host = os.Getenv("MONGO_HOST")
	}
	if C.Database.Mongo.Port == "" {
		C.Database.Mongo.Port = os.Getenv("MONGO_PORT")
	}
	if C.Database.Mongo.Name == "" {
		C.Database.Mongo.Name = os.Getenv("MONGO_DB_NAME")
	}
	if C.Database.Mongo.User == "" {
		C.Database.Mongo.User = os.Getenv("MONGO_USER")
	}
	if C.Database.Mongo.Password == "" {
		C.Database.Mongo.Password = os.Getenv("MONGO_PASSWORD")
	}
}

func initApp(C *Config) {
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10002
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10002
	}
}

func initCatalog(C *Config) {
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		C.Data.Source = v
	}
	if C.Data.Source == "" {
		C.Data.Source = "file"
	}
	if v := os.Getenv("DATA_FILE"); v != "" {
		C.Data.File = v
	}
	if C.Data.File == "" {
		C.Data.File = "channel_data.json"
	}
	if v := os.Getenv("CATALOG_STALENESS_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			C.Catalog.StalenessThresholdHours = n
		}
	}
	if C.Catalog.StalenessThresholdHours == 0 {
		C.Catalog.StalenessThresholdHours = 24
	}
	if v := os.Getenv("CATALOG_SHORTS_MAX_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			C.Catalog.ShortsMaxSeconds = n
		}
	}
	if C.Catalog.ShortsMaxSeconds == 0 {
		// The upstream definition of a short has drifted between 60 and
		// 70 seconds; 60 matches the shipped behavior.
		C.Catalog.ShortsMaxSeconds = 60
	}
	if v := os.Getenv("CATALOG_REQUEST_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			C.Catalog.RequestTimeoutSeconds = n
		}
	}
	if C.Catalog.RequestTimeoutSeconds == 0 {
		C.Catalog.RequestTimeoutSeconds = 10
	}
}
