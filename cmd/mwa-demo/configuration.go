// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/BurntSushi/toml"
)

// tomlConfig describes the TOML-configuration.
type tomlConfig struct {
	Logging     logConf
	Association associationConf
}

// logConf describes the Logging-configuration block.
type logConf struct {
	Level  string
	Format string
}

// associationConf describes the Association-configuration block.
type associationConf struct {
	// Port fixes the association port; zero draws a random one.
	Port uint16

	// ConnectTimeoutMs bounds the transport's retrying in milliseconds.
	ConnectTimeoutMs uint `toml:"connect-timeout-ms"`

	// DetectionWindowMs bounds the launcher's focus-loss detection in
	// milliseconds.
	DetectionWindowMs uint `toml:"detection-window-ms"`
}

func (conf associationConf) connectTimeout() time.Duration {
	return time.Duration(conf.ConnectTimeoutMs) * time.Millisecond
}

func (conf associationConf) detectionWindow() time.Duration {
	return time.Duration(conf.DetectionWindowMs) * time.Millisecond
}

// configureLogging applies a logConf to logrus.
func configureLogging(conf logConf) {
	if conf.Level != "" {
		if lvl, err := log.ParseLevel(conf.Level); err != nil {
			log.WithFields(log.Fields{
				"level":    conf.Level,
				"error":    err,
				"provided": "panic,fatal,error,warn,info,debug,trace",
			}).Warn("Failed to set log level. Please select one of the provided ones")
		} else {
			log.SetLevel(lvl)
		}
	}

	switch conf.Format {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})

	case "json":
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})

	default:
		log.Warn("Unknown logging format")
	}
}

// parseConfig reads the configuration file, if one was given.
func parseConfig(filename string) (conf tomlConfig, err error) {
	if filename != "" {
		if _, err = toml.DecodeFile(filename, &conf); err != nil {
			return
		}
	}

	configureLogging(conf.Logging)
	return
}
