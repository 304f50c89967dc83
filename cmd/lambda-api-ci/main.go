package main

import "github.com/davarch/lambda-api-ci/cmd/lambda-api-ci/cli"

func main() {
	cli.Execute()
}
