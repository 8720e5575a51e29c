/*
Copyright © 2026 Paulo Suderio
*/
package main

import "github.com/suderio/farmstead/cmd"

func main() {
	cmd.Execute()
}
