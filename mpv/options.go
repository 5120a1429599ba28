package mpv

import (
	"github.com/epcltv/epcltv/key"
	"github.com/epcltv/epcltv/where"
	"github.com/spf13/viper"
)

// OptionsFromConfig reads the player section of the configuration.
func OptionsFromConfig() Options {
	return Options{
		Binary:            viper.GetString(key.PlayerMPVBinary),
		Args:              viper.GetStringSlice(key.PlayerMPVArgs),
		SocketDir:         where.Sockets(),
		SocketWaitRetries: viper.GetInt(key.PlayerSocketWaitRetries),
		EventBuffer:       viper.GetInt(key.PlayerEventBuffer),
	}
}
