// Package main generates a client token and the bcrypt hash the service
// expects in GYMSESSION_CLIENT_TOKEN_HASH.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/2beens/gymsession/pkg"
)

func main() {
	token := flag.String("token", "", "existing token to hash, a new one is generated when empty")
	length := flag.Int("bytes", 32, "random bytes in a generated token")
	flag.Parse()

	if *token == "" {
		generated, err := pkg.GenerateToken(*length)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate token: %s\n", err)
			os.Exit(1)
		}
		*token = generated
	}

	hash, err := pkg.HashPassword(*token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash token: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("token: %s\n", *token)
	fmt.Printf("hash:  %s\n", hash)
}
