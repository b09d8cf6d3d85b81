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
	"github.com/markkurossi/yao/ot"
	"github.com/markkurossi/yao/p2p"
)

func main() {
	host := flag.String("H", "localhost", "garbler host")
	port := flag.Int("p", 8080, "garbler port")
	input := flag.String("i", "", "input bits, first input wire first")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("evaluator: ")

	if len(*input) == 0 {
		fmt.Fprintf(os.Stderr, "input bits are required\n")
		flag.Usage()
		os.Exit(1)
	}
	inputs, err := yao.ParseInputBits(*input)
	if err != nil {
		log.Fatalf("invalid input: %s", err)
	}
	if *verbose {
		fmt.Printf("Input: %s\n", yao.FormatBits(inputs))
	}

	conn, err := p2p.Dial(fmt.Sprintf("%s:%d", *host, *port), 0)
	if err != nil {
		log.Fatalf("connect failed: %s", err)
	}
	defer conn.Close()

	stats, err := yao.Evaluator(conn, ot.NewCO(), inputs, *verbose)
	if err != nil {
		log.Fatalf("computation failed: %s", err)
	}
	if *verbose {
		fmt.Printf("Evaluated %d gates, %d/%d trial decryptions in %s\n",
			stats.GatesEvaluated, stats.DecryptSuccesses,
			stats.DecryptAttempts, stats.Elapsed)
	}
}
