package main

import (
	"github.com/gautamkumar30/kontract.ai/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
