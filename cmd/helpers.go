// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darijamt/colmap/cmd/config"
	"github.com/darijamt/colmap/internal/json"
	"github.com/darijamt/colmap/internal/log/zerolog"
	loglib "github.com/darijamt/colmap/pkg/log"
)

const trueStr = "true"

type printer interface {
	PrettyPrint() string
}

func print(cmd *cobra.Command, p printer) error {
	str := p.PrettyPrint()
	if jsonOutput(cmd) {
		jsonData, err := json.MarshalIndent(p)
		if err != nil {
			return err
		}
		str = string(jsonData)
	}

	fmt.Fprintln(cmd.OutOrStdout(), str) //nolint:forbidigo
	return nil
}

func jsonOutput(cmd *cobra.Command) bool {
	if flag := cmd.Flags().Lookup("json"); flag != nil && flag.Changed {
		return flag.Value.String() == trueStr
	}
	return config.OutputJSON()
}

func newLogger(module string) loglib.Logger {
	logger := zerolog.NewLogger(&zerolog.Config{
		LogLevel:  viper.GetString("COLMAP_LOG_LEVEL"),
		LogFormat: viper.GetString("COLMAP_LOG_FORMAT"),
	})
	zerolog.SetGlobalLogger(logger)
	return zerolog.NewStdLogger(logger).WithFields(loglib.Fields{
		loglib.ModuleField: module,
	})
}
