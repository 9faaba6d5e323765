package main

import "github.com/yeremiapane/restaurant-orders/cmd"

func main() {
	cmd.Execute()
}
