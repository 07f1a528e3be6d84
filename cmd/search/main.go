package main

import (
	"github.com/kailas-cloud/searchapi/internal/cli"
	"github.com/kailas-cloud/searchapi/internal/version"
)

func main() {
	cli.Execute(version.Version)
}
