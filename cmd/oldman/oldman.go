// Copyright 2025 The OldMan Authors. All rights reserved.
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

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oldman-go/oldman/clog"
	_ "github.com/oldman-go/oldman/clog/glog"
	"github.com/oldman-go/oldman/cmd/oldman/command"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "oldman",
		Short: "OldMan maps RDF resources to typed objects over SPARQL.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if conf, err := cmd.Flags().GetString("config"); err == nil && conf != "" {
				viper.SetConfigFile(conf)
			} else {
				viper.SetConfigName("oldman")
				viper.AddConfigPath(".")
				viper.AddConfigPath("/etc")
			}
			viper.SetEnvPrefix("oldman")
			viper.AutomaticEnv()
			err := viper.ReadInConfig()
			if _, missing := err.(viper.ConfigFileNotFoundError); err != nil && !missing {
				return err
			}
			if file := viper.ConfigFileUsed(); file != "" {
				clog.Infof("using config file: %s", file)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().String("config", "", "path to an explicit configuration file")

	rootCmd.AddCommand(
		command.NewServeCmd(),
		command.NewDumpCmd(),
		command.NewVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		clog.Errorf("%v", err)
		os.Exit(1)
	}
}
