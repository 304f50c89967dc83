package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/davarch/lambda-api-ci/internal/infrastructure/logging"
	"github.com/davarch/lambda-api-ci/internal/widgets"
)

func main() {
	log := logging.New()
	defer func() { _ = log.Sync() }()

	h := widgets.NewHandler(log, widgets.Default())
	lambda.Start(h.Handle)
}
