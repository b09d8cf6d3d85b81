//
// main.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/markkurossi/yao"
	"github.com/markkurossi/yao/circuit"
	"github.com/markkurossi/yao/ot"
	"github.com/markkurossi/yao/p2p"
)

func main() {
	circPath := flag.String("c", "", "circuit file")
	port := flag.Int("p", 8080, "listen port")
	input := flag.String("i", "", "input bits, first input wire first")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("garbler: ")

	if len(*circPath) == 0 || len(*input) == 0 {
		fmt.Fprintf(os.Stderr, "circuit file and input bits are required\n")
		flag.Usage()
		os.Exit(1)
	}

	circ, err := circuit.ParseFile(*circPath)
	if err != nil {
		log.Fatalf("failed to parse circuit '%s': %s", *circPath, err)
	}
	inputs, err := yao.ParseInputBits(*input)
	if err != nil {
		log.Fatalf("invalid input: %s", err)
	}
	if *verbose {
		fmt.Printf("Circuit: %v\n", circ)
		fmt.Printf("Input: %s\n", yao.FormatBits(inputs))
	}

	conn, err := p2p.Listen(fmt.Sprintf(":%d", *port))
	if err != nil {
		log.Fatalf("listen failed: %s", err)
	}
	defer conn.Close()

	result, err := yao.Garbler(conn, ot.NewCO(), circ, inputs, *verbose)
	if err != nil {
		log.Fatalf("computation failed: %s", err)
	}
	fmt.Printf("Result: %s\n", yao.FormatBits(result))
}
