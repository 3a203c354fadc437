package main

import "github.com/redpandashots/plant-watering-reminder/cmd"

func main() {
	cmd.Execute()
}
