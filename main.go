package main

import (
	"github.com/adcue/adcue/cmd"
	"github.com/adcue/adcue/config"
	"github.com/adcue/adcue/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
