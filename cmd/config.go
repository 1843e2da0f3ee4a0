package main

import "time"

type Config struct {
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=256"`
	ReportInterval       time.Duration `env:"REPORT_INTERVAL,default=30s"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=3001"`
	AllowedOrigins       []string      `env:"ALLOWED_ORIGINS,default=*"`
}
