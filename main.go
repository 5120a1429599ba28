// Package main is the entry point of epcltv.
package main

import (
	"github.com/epcltv/epcltv/cmd"
	"github.com/epcltv/epcltv/config"
	"github.com/epcltv/epcltv/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
