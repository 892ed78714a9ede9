package fiberlog

import "github.com/sirupsen/logrus"

// Config настройки middleware
type Config struct {
	// Logger nil означает стандартный логгер logrus
	Logger *logrus.Logger
	// Tags поля, которые попадут в запись лога
	Tags []string
}

var ConfigDefault = Config{
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
	},
}
