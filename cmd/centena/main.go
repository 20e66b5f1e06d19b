package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/calmisko/centena/client"
)

func main() {
	name := flag.String("name", "", "player name")
	addr := flag.String("server", "localhost:1234", "server address")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "usage: centena -name <name> [-server host:port]")
		os.Exit(2)
	}

	c := client.NewClient(*name, *addr)
	if err := c.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
