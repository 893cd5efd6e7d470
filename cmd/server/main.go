package main

import (
	"fmt"
	"net/http"

	"github.com/vivemedellin/go-vivemedellin/env"
	"github.com/vivemedellin/go-vivemedellin/server"
	"github.com/vivemedellin/go-vivemedellin/service/logger"
	sentryutil "github.com/vivemedellin/go-vivemedellin/service/sentry"
)

func main() {
	defer sentryutil.RecoverAndRaise(nil)

	server.Init()

	port := env.GetInt("PORT")
	logger.For(nil).Infof("listening on :%d", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil); err != nil {
		logger.For(nil).Fatal(err)
	}
}
