package main

import (
	"github.com/urfave/cli"

	"ssao-engine/log"
)

var logger = log.New("ssao")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
