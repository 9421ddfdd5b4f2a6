package main

import "github.com/betarho/zxscan/cmd/zxscan/cmd"

func main() {
	cmd.Execute()
}
