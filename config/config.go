package config

import "os"

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	GeminiKey         string
	GeminiFallbackKey string
	TTSModel          string

	AudioDir    string
	AudioBucket string
}

func LoadConfig() Config {
	return Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		GeminiKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiFallbackKey: os.Getenv("GEMINI_API_KEY_FALLBACK"),
		TTSModel:          os.Getenv("TTS_MODEL"),

		AudioDir:    os.Getenv("AUDIO_DIR"),
		AudioBucket: os.Getenv("AUDIO_BUCKET"),
	}
}
