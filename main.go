package main

import "sperrmuell/cmd"

func main() {
	cmd.Execute()
}
