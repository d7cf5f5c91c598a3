// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/BurntSushi/toml"
)

// tomlConfig describes the TOML-configuration.
type tomlConfig struct {
	Logging  logConf
	Endpoint endpointConf
}

// logConf describes the Logging-configuration block.
type logConf struct {
	Level  string
	Format string
}

// endpointConf describes the wallet endpoint to serve.
type endpointConf struct {
	// Association is the association token from the client's invocation
	// URL; the endpoint cannot verify or key a session without it.
	Association string

	// Port to listen on.
	Port uint16
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

// parseConfig reads the configuration file.
func parseConfig(filename string) (conf tomlConfig, err error) {
	if _, err = toml.DecodeFile(filename, &conf); err != nil {
		return
	}

	configureLogging(conf.Logging)

	if conf.Endpoint.Association == "" {
		err = fmt.Errorf("endpoint.association is empty")
		return
	}
	if conf.Endpoint.Port == 0 {
		err = fmt.Errorf("endpoint.port is empty")
		return
	}

	return
}
