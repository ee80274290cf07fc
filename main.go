package main

import "github.com/intraforms/portal-api/cmd"

func main() {
	cmd.Execute()
}
