// Copyright 2024 The LykiaDB Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command lykiadbd starts the LykiaDB TCP server (§6). It reads no
// environment variables beyond an optional config file path (§6's "process
// interface" note).
package main

import (
	"flag"
	"os"

	"github.com/lykia-rs/lykiadb-sub002/pkg/server"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML server config file")
	flag.Parse()

	log := logrus.New()

	cfg := server.NewConfig()
	if *configPath != "" {
		loaded, err := server.LoadConfig(*configPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load config")
		}
		cfg = loaded
	}

	srv := server.New(cfg, log)
	if err := srv.ListenAndServe(); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
