package main

import "geo-legend/internal/cli"

func main() { cli.Execute() }
