// Command tokeninspect prints what the storefront reads from an access token.
// Nothing is verified; the gateway remains the authority.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"rumal.store/web/internal/auth"
)

func main() {
	token := flag.String("token", os.Getenv("ACCESS_TOKEN"), "Access token (reads stdin when empty)")
	flag.Parse()

	if *token == "" {
		sc := bufio.NewScanner(os.Stdin)
		sc.Buffer(make([]byte, 64*1024), 1<<20)
		if sc.Scan() {
			*token = strings.TrimSpace(sc.Text())
		}
	}
	if *token == "" {
		fmt.Fprintln(os.Stderr, "Error: no token given (use -token, ACCESS_TOKEN or stdin)")
		os.Exit(1)
	}

	claims, err := auth.DecodeClaims(strings.TrimPrefix(*token, "Bearer "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding token: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding claims: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
	fmt.Println()
	fmt.Printf("admin:   %v\n", claims.IsAdmin())
	fmt.Printf("vendor:  %v\n", claims.IsVendor())
	fmt.Printf("expired: %v\n", claims.Expired(time.Now()))
}
