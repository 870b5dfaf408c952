// Package main is the entry point of the upstream proxy.
package main

import "upstreamproxy/cmd"

func main() {
	cmd.Execute()
}
