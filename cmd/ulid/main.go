package main

import (
	"flag"
	"fmt"
	"os"

	"ulid-lite/pkg/ulid"
)

func main() {
	var (
		countFlag = flag.Int("n", 1, "number of IDs to print")
		seedFlag  = flag.Uint64("seed", 0, "seed the randomness deterministically (0 seeds from the clock)")
	)
	flag.Parse()

	gen := ulid.NewGenerator()
	if *seedFlag != 0 {
		gen = ulid.NewSeededGenerator(*seedFlag)
	}

	for i := 0; i < *countFlag; i++ {
		id, err := gen.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ulid: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(id)
	}
}
