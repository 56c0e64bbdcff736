// Command poolstat inspects and seeds the shared key-pool state file.
//
// Usage:
//
//	poolstat -state api_keys.json
//	poolstat -state api_keys.json -init KEY1,KEY2,KEY3
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rickgao/alphavantage-data/internal/keypool"
)

func main() {
	statePath := flag.String("state", "api_keys.json", "path to key state file")
	initKeys := flag.String("init", "", "comma-separated keys to write as a fresh active set")
	flag.Parse()

	store := keypool.NewFileStore(*statePath)

	if *initKeys != "" {
		keys := strings.Split(*initKeys, ",")
		for i, k := range keys {
			keys[i] = strings.TrimSpace(k)
		}
		if err := store.Save(keys, nil); err != nil {
			fmt.Fprintf(os.Stderr, "poolstat: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %d active keys to %s\n", len(keys), *statePath)
		return
	}

	active, expired, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "poolstat: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("state file: %s\n", *statePath)
	fmt.Printf("active keys (%d):\n", len(active))
	for _, k := range active {
		fmt.Printf("  %s\n", mask(k))
	}
	fmt.Printf("expired keys (%d):\n", len(expired))
	for _, k := range expired {
		fmt.Printf("  %s\n", mask(k))
	}
}

// mask hides all but the edges of a credential.
func mask(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
