// Command hosttoken signs the host token a gateway, ledger or operator
// presents to the auction api.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/stores/auth/usecase"
)

func main() {
	fs := pflag.NewFlagSet("hosttoken", pflag.ExitOnError)
	secret := fs.String("secret", os.Getenv("AUTH_JWTSECRET"), "jwt secret, defaults to $AUTH_JWTSECRET")
	caller := fs.String("caller", "", "party the token asserts")
	ttl := fs.Duration("ttl", 24*time.Hour, "lifetime of the token, 0 never expires")
	fs.Parse(os.Args[1:])

	if *secret == "" || *caller == "" {
		fmt.Fprintln(os.Stderr, "usage: hosttoken --caller 0x... [--secret s] [--ttl 24h]")
		fs.PrintDefaults()
		os.Exit(2)
	}

	token, err := usecase.New(*secret).SignToken(ctx.Background(), domain.Address(*caller), *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
