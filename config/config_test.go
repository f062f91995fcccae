package config

import (
	"errors"
	"testing"

	"github.com/adcue/adcue/filesystem"
	"github.com/adcue/adcue/key"
	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	convey.Convey("Config Setup", t, func() {
		convey.Convey("Should initialize without error", func() {
			err := Setup()
			convey.So(err, convey.ShouldBeNil)
		})

		convey.Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				convey.So(viper.Get(name), convey.ShouldNotBeNil)
			}
			convey.So(viper.GetString(key.AdsInteractiveMarker), convey.ShouldEqual, "trueX")
			convey.So(viper.GetInt(key.PlayerPlaceholderMarginMs), convey.ShouldEqual, 100)
		})

		convey.Convey("Should register every declared key", func() {
			convey.So(len(Default), convey.ShouldEqual, key.DefinedFieldsCount)
		})

		convey.Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("player.seek_to_end_margin_ms")
			convey.So(result, convey.ShouldEqual, "player_seek_to_end_margin_ms")
		})
	})
}

func TestFieldEnv(t *testing.T) {
	convey.Convey("Given a field", t, func() {
		f := Default[key.AdsStitched]

		convey.Convey("Env should be prefixed and upper-cased", func() {
			convey.So(f.Env(), convey.ShouldEqual, "ADCUE_ADS_STITCHED")
		})

		convey.Convey("typeName should reflect the default value", func() {
			convey.So(f.typeName(), convey.ShouldEqual, "bool")
		})
	})
}

func TestSaveReset(t *testing.T) {
	convey.Convey("Given loaded defaults", t, func() {
		convey.So(Setup(), convey.ShouldBeNil)
		_ = filesystem.API().Remove(File())

		convey.Convey("Save should create the config file, then overwrite it", func() {
			viper.Set(key.PlayerSkipPaddingMs, 3000)
			convey.So(Save(), convey.ShouldBeNil)

			data, err := filesystem.API().ReadFile(File())
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldContainSubstring, "3000")

			viper.Set(key.PlayerSkipPaddingMs, 4000)
			convey.So(Save(), convey.ShouldBeNil)

			data, err = filesystem.API().ReadFile(File())
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldContainSubstring, "4000")
		})

		convey.Convey("Reset should restore one key", func() {
			viper.Set(key.AdsStitched, true)
			convey.So(Reset(key.AdsStitched), convey.ShouldBeNil)
			convey.So(viper.GetBool(key.AdsStitched), convey.ShouldBeFalse)
		})

		convey.Convey("Reset should reject unknown keys without touching the rest", func() {
			viper.Set(key.AdsStitched, true)
			err := Reset(key.AdsStitched, "ads.stiched")
			convey.So(errors.Is(err, ErrUnknownKey), convey.ShouldBeTrue)
			convey.So(viper.GetBool(key.AdsStitched), convey.ShouldBeTrue)
			convey.So(Reset(), convey.ShouldBeNil)
			convey.So(viper.GetBool(key.AdsStitched), convey.ShouldBeFalse)
		})
	})
}
