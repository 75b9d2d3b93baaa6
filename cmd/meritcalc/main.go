package main

import "github.com/Hammad-111/HamSync-sub000/internal/cli"

func main() {
	cli.Execute()
}
