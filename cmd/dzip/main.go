// Command dzip compresses a file into the .dzip format, or decompresses one
// back.
//
// Usage:
//
//	dzip <path>     compress <path> into <path>.dzip
//	dzip -d <path>  decompress <path>, replacing every .dzip in it with (1)
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mvereim/dzip"
)

func main() {
	args := os.Args[1:]
	switch {
	case len(args) == 1:
		compress(args[0])
	case len(args) == 2 && args[0] == "-d":
		decompress(args[1])
	default:
		fmt.Println("Incorrect data")
	}
}

func compress(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	encoded, err := dzip.Encode(data)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(path+".dzip", encoded, 0644); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Successful")
}

func decompress(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	decoded, err := dzip.Decode(data)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(strings.ReplaceAll(path, ".dzip", "(1)"), decoded, 0644); err != nil {
		log.Fatal(err)
	}
}
