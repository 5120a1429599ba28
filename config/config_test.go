package config

import (
	"os"
	"testing"

	"github.com/epcltv/epcltv/filesystem"
	"github.com/epcltv/epcltv/key"
	"github.com/epcltv/epcltv/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	_ = os.Setenv(where.EnvConfigPath, "/config")
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without a config file", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should populate every registered default", func() {
			So(Setup(), ShouldBeNil)
			for name := range Default {
				So(viper.IsSet(name), ShouldBeTrue)
			}
			So(viper.GetString(key.PlayerMPVBinary), ShouldEqual, "mpv")
			So(viper.GetInt(key.PlayerEventBuffer), ShouldEqual, 64)
		})

		Convey("Should read values from the toml file", func() {
			So(filesystem.API().WriteFile("/config/epcltv.toml", []byte("[player]\nresume_threshold = 80\n"), 0o644), ShouldBeNil)
			defer func() { _ = filesystem.API().Remove("/config/epcltv.toml") }()

			So(Setup(), ShouldBeNil)
			So(viper.GetInt(key.PlayerResumeThreshold), ShouldEqual, 80)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("player.mpv_binary"), ShouldEqual, "player_mpv_binary")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.PlayerMPVBinary]

		Convey("Env should be prefixed with the application name", func() {
			So(field.Env(), ShouldEqual, "EPCLTV_PLAYER_MPV_BINARY")
		})

		Convey("Pretty should mention the key", func() {
			So(field.Pretty(), ShouldContainSubstring, key.PlayerMPVBinary)
		})

		Convey("MarshalJSON should report the type", func() {
			data, err := field.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"type":"string"`)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given the registered fields", t, func() {
		Convey("Defaults are valid", func() {
			for _, field := range Default {
				So(field.Validate(field.Value), ShouldBeNil)
			}
		})

		Convey("Out of range values are rejected", func() {
			field := Default[key.PlayerResumeThreshold]
			So(field.Validate(0), ShouldNotBeNil)
			So(field.Validate(101), ShouldNotBeNil)
			So(field.Validate(50), ShouldBeNil)
		})

		Convey("Values of the wrong type are rejected", func() {
			field := Default[key.TUIEnabled]
			So(field.Validate("yes"), ShouldNotBeNil)
		})

		Convey("Unknown icon variants and log levels are rejected", func() {
			icons := Default[key.IconsVariant]
			So(icons.Validate("ascii"), ShouldNotBeNil)
			So(icons.Validate("nerd"), ShouldBeNil)

			level := Default[key.LogsLevel]
			So(level.Validate("warn"), ShouldBeNil)
			So(level.Validate("loud"), ShouldNotBeNil)
		})

		Convey("An invalid config file fails setup", func() {
			So(filesystem.API().WriteFile("/config/epcltv.toml", []byte("[tui]\nprogress_width = 2\n"), 0o644), ShouldBeNil)
			defer func() { _ = filesystem.API().Remove("/config/epcltv.toml") }()

			So(Setup(), ShouldNotBeNil)
			viper.Reset()
		})
	})
}

